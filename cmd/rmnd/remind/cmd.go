// Package remindcmd implements the `rmnd remind` shortcut.
package remindcmd

import (
	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/rmnd/cmd/rmnd/add"
	"github.com/go-ports/rmnd/cmd/rmnd/shared"
	"github.com/go-ports/rmnd/internal/models"
	"github.com/go-ports/rmnd/internal/service"
)

// Command implements `rmnd remind`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	global   bool
	priority string
}

// New creates the remind command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "remind <text>",
		Aliases: []string{"r"},
		Short:   "Add a reminder (shortcut for `add reminder`)",
		Args:    cobra.ExactArgs(1),
		RunE:    c.run,
	}

	f := c.cmd.Flags()
	f.BoolVarP(&c.global, "global", "g", false, "Add to the global context")
	f.StringVarP(&c.priority, "priority", "p", models.DefaultPriority, "Priority name")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	return addcmd.AddReminder(cmd, c.ctx, service.ScopeOf(c.global), args[0], c.priority)
}
