package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type locateCmd struct{}

func (c *locateCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <fqcn>",
		Short: `Find the file declaring a class, e.g. locate 'app\models\User'`,
		Args:  cobra.ExactArgs(1),
	}
}

func (c *locateCmd) run(cl *CLI, cmd *cobra.Command, args []string) error {
	l, err := cl.app.Locator()
	if err != nil {
		return errors.Wrap(err, "resolve class locator")
	}
	file, err := l.Locate(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), file)
	return nil
}
