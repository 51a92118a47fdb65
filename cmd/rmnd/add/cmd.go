// Package addcmd implements the `rmnd add` command group.
package addcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/rmnd/cmd/rmnd/shared"
	"github.com/go-ports/rmnd/internal/models"
	"github.com/go-ports/rmnd/internal/service"
)

// defaultPriorityColor is used by `add priority` when --color is omitted.
var defaultPriorityColor = models.Named(models.Cyan)

// Command implements `rmnd add`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	global   bool
	priority string
}

// New creates the add command group. `rmnd add <text>` is a shorthand for
// `rmnd add reminder <text>`.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "add [text]",
		Aliases: []string{"a"},
		Short:   "Add a reminder or priority",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.run,
	}

	c.cmd.PersistentFlags().BoolVarP(&c.global, "global", "g", false, "Add to the global context")
	c.cmd.Flags().StringVarP(&c.priority, "priority", "p", models.DefaultPriority, "Priority name")

	c.cmd.AddCommand(
		newReminder(ctx, &c.global),
		newPriority(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return AddReminder(cmd, c.ctx, service.ScopeOf(c.global), args[0], c.priority)
}

// AddReminder adds text with the given priority and reports where it went.
// The author comes from the user settings in the global config.
func AddReminder(cmd *cobra.Command, ctx *shared.Context, scope service.Scope, text, priority string) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	cwd, err := ctx.Cwd()
	if err != nil {
		return err
	}
	author, err := svc.DefaultAuthor()
	if err != nil {
		return err
	}

	res, err := svc.AddReminder(scope, cwd, text, priority, author)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added reminder #%d to %s\n", res.Index, res.Path)
	return nil
}

// ---------------------------------------------------------------------------
// add reminder
// ---------------------------------------------------------------------------

func newReminder(ctx *shared.Context, global *bool) *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:     "reminder <text>",
		Aliases: []string{"remind", "r"},
		Short:   "Add a reminder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return AddReminder(cmd, ctx, service.ScopeOf(*global), args[0], priority)
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", models.DefaultPriority, "Priority name")
	return cmd
}

// ---------------------------------------------------------------------------
// add priority
// ---------------------------------------------------------------------------

func newPriority(ctx *shared.Context) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:     "priority <name>",
		Aliases: []string{"prio", "p"},
		Short:   "Add a priority to the global config",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col := defaultPriorityColor
			if color != "" {
				parsed, err := models.ParseColor(color)
				if err != nil {
					return fmt.Errorf("%w (known colours: %s, or #rrggbb)", err, strings.Join(models.ColorNames(), ", "))
				}
				col = parsed
			}

			svc, err := ctx.Service()
			if err != nil {
				return err
			}
			p, err := svc.AddPriority(args[0], col)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added priority %s (%s)\n", p.Name, p.Color)
			return nil
		},
	}
	cmd.Flags().StringVarP(&color, "color", "c", "", "Colour name or #rrggbb (default Cyan)")
	return cmd
}
