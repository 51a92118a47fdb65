// Package configcmd implements the `rmnd config` command.
package configcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/rmnd/cmd/rmnd/shared"
)

// Command implements `rmnd config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show where rmnd reads its config files from",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	cwd, err := c.ctx.Cwd()
	if err != nil {
		return err
	}
	loc, err := svc.Locations(cwd)
	if err != nil {
		return err
	}

	data := map[string]any{
		"global":        loc.Global,
		"global_source": loc.Source,
		"nearest":       loc.Nearest,
		"in_scope":      loc.InScope,
		"registered":    loc.Registered,
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}
