// Package cli is the go-framework command-line client: it boots an
// Application and inspects its aliases, class locator and container.
package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-framework/framework/alias"
	"github.com/km-arc/go-framework/framework/app"
	"github.com/km-arc/go-framework/framework/di"
	"github.com/km-arc/go-framework/framework/i18n"
)

// Builder creates the application a command runs against.
type Builder func(envFiles ...string) (*app.Application, error)

// CLI holds the root command and the application built for the current run.
type CLI struct {
	rootCmd *cobra.Command

	envFiles []string
	build    Builder
	app      *app.Application
}

// New returns a CLI bootstrapping a real application.
func New() *CLI {
	return NewWithBuilder(app.New)
}

// NewWithBuilder returns a CLI using build to create the application.
func NewWithBuilder(build Builder) *CLI {
	c := &CLI{build: build}

	c.rootCmd = &cobra.Command{
		Use:                "go-framework",
		Short:              "go-framework inspects path aliases and the DI container",
		Version:            app.Version(),
		SilenceUsage:       true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: c.close,
	}
	c.rootCmd.PersistentFlags().StringSliceVar(&c.envFiles, "env", []string{".env"}, "dotenv files to load")

	c.addCmd(&aliasCmd{})
	c.addCmd(&aliasesCmd{})
	c.addCmd(&locateCmd{})
	c.addCmd(&definitionsCmd{})
	c.addCmd(&makeCmd{})

	return c
}

// Exec runs the command line in os.Args.
func (c *CLI) Exec() error {
	return c.rootCmd.Execute()
}

// Root exposes the root command.
func (c *CLI) Root() *cobra.Command { return c.rootCmd }

func (c *CLI) open(_ *cobra.Command, _ []string) error {
	a, err := c.build(c.envFiles...)
	if err != nil {
		return errors.Wrap(err, "bootstrap application")
	}
	if err := registerTypes(a.Types()); err != nil {
		return errors.Wrap(err, "register framework types")
	}
	if err := a.Boot(); err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *CLI) close(_ *cobra.Command, _ []string) error {
	if c.app == nil {
		return nil
	}
	// stderr cannot be synced on every platform; the result is discarded.
	_ = c.app.Shutdown()
	c.app = nil
	return nil
}

func (c *CLI) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.run(c, innerCmd, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

type command interface {
	registerFlags() *cobra.Command
	run(cl *CLI, cmd *cobra.Command, args []string) error
}

// registerTypes makes framework classes buildable by short name from make.
func registerTypes(types *di.Types) error {
	ctors := map[string]any{
		"alias.Resolver": alias.NewResolver,
		"i18n.Catalog":   i18n.NewCatalog,
	}
	for name, ctor := range ctors {
		if _, ok := types.Lookup(name); ok {
			continue
		}
		if _, err := types.Register(ctor, di.Named(name)); err != nil {
			return err
		}
	}
	return nil
}
