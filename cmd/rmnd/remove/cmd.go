// Package removecmd implements the `rmnd remove` command.
package removecmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/go-ports/rmnd/cmd/rmnd/shared"
	"github.com/go-ports/rmnd/internal/service"
)

// Command implements `rmnd remove`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	global   bool
	priority string
	context  bool
}

// New creates the remove command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "remove [id]",
		Aliases: []string{"rm"},
		Short:   "Remove a reminder, priority or context",
		Long: `Remove a reminder by the id shown by ` + "`rmnd show -i`" + `, a priority by name
(--priority), or unregister the nearest local config (--context). The local
config file itself is never deleted.

Ids are numbered per file. <id> always refers to the nearest local config for
the working directory (shown as "nearest" by ` + "`rmnd config`" + `), or to the
global config with --global. Ids copied from any other file group printed by
` + "`rmnd show -i`" + ` do not apply.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	f.BoolVarP(&c.global, "global", "g", false, "Remove the reminder from the global context")
	f.StringVar(&c.priority, "priority", "", "Remove every priority with this name")
	f.BoolVar(&c.context, "context", false, "Unregister the nearest local config")
	c.cmd.MarkFlagsMutuallyExclusive("priority", "context")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	selected := len(args)
	if c.priority != "" {
		selected++
	}
	if c.context {
		selected++
	}
	if selected != 1 {
		return errors.New("remove: give exactly one of <id>, --priority or --context")
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch {
	case c.priority != "":
		n, err := svc.RemovePriority(c.priority)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d priority entries named %s\n", n, c.priority)
		return nil

	case c.context:
		cwd, err := c.ctx.Cwd()
		if err != nil {
			return err
		}
		path, err := svc.Unregister(cwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Unregistered %s (file kept)\n", path)
		return nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("remove: invalid id %q: want a number from `rmnd show -i`", args[0])
	}
	cwd, err := c.ctx.Cwd()
	if err != nil {
		return err
	}
	removed, err := svc.RemoveReminder(service.ScopeOf(c.global), cwd, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed reminder #%d from %s: %s\n", removed.Index, removed.Path, removed.Text)
	return nil
}
