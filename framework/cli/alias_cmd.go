package cli

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type aliasCmd struct {
	root bool
}

func (c *aliasCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias <token>",
		Short: "Resolve a path alias",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&c.root, "root", false, "print the registered alias serving the token instead of the path")
	return cmd
}

func (c *aliasCmd) run(cl *CLI, cmd *cobra.Command, args []string) error {
	token := args[0]

	if c.root {
		root, ok := cl.app.Aliases.Root(token)
		if !ok {
			return errors.Errorf("no alias registered for %s", token)
		}
		fmt.Fprintln(cmd.OutOrStdout(), root)
		return nil
	}

	path, err := cl.app.GetAlias(token)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

type aliasesCmd struct{}

func (c *aliasesCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List registered path aliases",
		Args:  cobra.NoArgs,
	}
}

func (c *aliasesCmd) run(cl *CLI, cmd *cobra.Command, _ []string) error {
	all := cl.app.Aliases.Aliases()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, all[k])
	}
	return nil
}
