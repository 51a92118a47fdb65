// Package priocmd implements the `rmnd prio` command.
package priocmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/rmnd/cmd/rmnd/shared"
	"github.com/go-ports/rmnd/internal/render"
)

// Command implements `rmnd prio`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the prio command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "prio",
		Aliases: []string{"priorities"},
		Short:   "List priorities",
		Args:    cobra.NoArgs,
		RunE:    c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	prios, err := svc.Priorities()
	if err != nil {
		return err
	}
	return render.New(cmd.OutOrStdout(), render.Options{}).Priorities(prios)
}
