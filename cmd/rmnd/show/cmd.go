// Package showcmd implements the `rmnd show` command.
package showcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/rmnd/cmd/rmnd/shared"
	"github.com/go-ports/rmnd/internal/models"
	"github.com/go-ports/rmnd/internal/render"
)

// Command implements `rmnd show`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	all        bool
	priorities string
	showIDs    bool
	format     string
}

// New creates the show command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "show",
		Aliases: []string{"s"},
		Short:   "Show reminders for the current context",
		Args:    cobra.NoArgs,
		RunE:    c.run,
	}

	f := c.cmd.Flags()
	f.BoolVarP(&c.all, "all", "a", false,
		"Show all reminders, including every contextual reminder across the system")
	f.StringVarP(&c.priorities, "priorities", "p", "",
		"Comma-separated priorities to show, by name or id")
	f.BoolVarP(&c.showIDs, "show-ids", "i", false,
		"Show ids for displayed reminders (usable with `rmnd remove`)")
	f.StringVar(&c.format, "format", "text", "Output format: text | yaml")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	if c.format != "text" && c.format != "yaml" {
		return fmt.Errorf("unknown format %q: want text or yaml", c.format)
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}

	var sum *models.ConfigSum
	if c.all {
		sum, err = svc.AggregateAll()
	} else {
		cwd, cwdErr := c.ctx.Cwd()
		if cwdErr != nil {
			return cwdErr
		}
		sum, err = svc.AggregateLocal(cwd)
	}
	if err != nil {
		return err
	}
	sum = sum.Filter(splitCSV(c.priorities))

	if c.format == "yaml" {
		return render.RemindersYAML(cmd.OutOrStdout(), sum)
	}
	return render.New(cmd.OutOrStdout(), render.Options{ShowIDs: c.showIDs}).Reminders(sum)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
