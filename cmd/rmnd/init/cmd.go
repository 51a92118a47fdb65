// Package initcmd implements the `rmnd init` command.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/rmnd/cmd/rmnd/shared"
	"github.com/go-ports/rmnd/internal/prompt"
	"github.com/go-ports/rmnd/internal/service"
)

// Command implements `rmnd init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	yes bool
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize a local contextual reminder file in this directory",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Register an existing rmnd.toml without asking")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	cwd, err := c.ctx.Cwd()
	if err != nil {
		return err
	}

	var confirm service.Confirmer = prompt.NewYesNo(cmd.InOrStdin(), cmd.OutOrStdout())
	if c.yes {
		confirm = prompt.Always(service.Allow)
	}

	res, err := svc.RegisterLocal(cwd, confirm)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch res.Status {
	case service.InitAlreadyRegistered:
		fmt.Fprintf(out, "Local config %s already exists and is registered.\n", res.Path)
	case service.InitCreated:
		fmt.Fprintf(out, "Created and registered %s\n", res.Path)
	case service.InitAdopted:
		fmt.Fprintf(out, "Registered existing %s\n", res.Path)
	case service.InitDeclined:
		fmt.Fprintln(out, "Nothing to do.")
	}
	return nil
}
