package cli

import (
	"fmt"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-framework/framework/di"
)

// ── definitions ───────────────────────────────────────────────────────────────

type definitionsCmd struct{}

func (c *definitionsCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "definitions",
		Short: "List container definitions and registered classes",
		Args:  cobra.NoArgs,
	}
}

func (c *definitionsCmd) run(cl *CLI, cmd *cobra.Command, _ []string) error {
	defs := cl.app.Definitions()
	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := cmd.OutOrStdout()
	for _, id := range ids {
		fmt.Fprintf(out, "%s\t%s\n", id, describe(defs[id]))
	}
	for _, name := range cl.app.Types().Names() {
		fmt.Fprintf(out, "%s\tclass\n", name)
	}
	return nil
}

func describe(def di.Definition) string {
	switch d := def.(type) {
	case di.ClassDefinition:
		return "class " + d.Class
	case di.FactoryDefinition:
		return "factory"
	case di.InstanceDefinition:
		return fmt.Sprintf("instance %T", d.Value)
	}
	return fmt.Sprintf("%T", def)
}

// ── make ──────────────────────────────────────────────────────────────────────

type makeCmd struct {
	props map[string]string
}

func (c *makeCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make <id>",
		Short: "Resolve an id from the container and dump it",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringToStringVar(&c.props, "set", nil, "properties applied to the built object (key=value)")
	return cmd
}

func (c *makeCmd) run(cl *CLI, cmd *cobra.Command, args []string) error {
	var config di.Config
	if len(c.props) > 0 {
		config = make(di.Config, len(c.props))
		for k, v := range c.props {
			config[k] = v
		}
	}

	object, err := cl.app.Get(args[0], nil, config)
	if err != nil {
		return errors.Wrapf(err, "make %s", args[0])
	}

	dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, MaxDepth: 4}
	dumper.Fdump(cmd.OutOrStdout(), object)
	return nil
}
