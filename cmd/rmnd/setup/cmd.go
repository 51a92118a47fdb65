// Package setupcmd implements the `rmnd setup` command group.
package setupcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/rmnd/cmd/rmnd/shared"
	"github.com/go-ports/rmnd/internal/setup"
)

// Command implements `rmnd setup`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the setup command group with one subcommand per agent.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "setup",
		Short: "Register the rmnd MCP server with a coding agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, a := range setup.Agents() {
		c.cmd.AddCommand(newAgent(ctx, a))
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func newAgent(ctx *shared.Context, agent setup.Agent) *cobra.Command {
	var (
		project   bool
		uninstall bool
		path      string
	)
	cmd := &cobra.Command{
		Use:   string(agent),
		Short: fmt.Sprintf("Register the rmnd MCP server with %s", agent),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolvePath(ctx, agent, path, project)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if uninstall {
				removed, err := setup.Uninstall(agent, target)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Removed rmnd from %s\n", target)
				} else {
					fmt.Fprintf(out, "rmnd is not registered in %s\n", target)
				}
				return nil
			}

			added, err := setup.Install(agent, target)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(out, "Installed rmnd into %s\n", target)
			} else {
				fmt.Fprintf(out, "Already installed in %s\n", target)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&project, "project", false, "Use the current project's agent config instead of the user-level one")
	f.BoolVar(&uninstall, "uninstall", false, "Remove the rmnd server entry")
	f.StringVar(&path, "path", "", "Explicit agent config file to edit")
	return cmd
}

//revive:disable:flag-parameter
func resolvePath(ctx *shared.Context, agent setup.Agent, path string, project bool) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	projectDir := ""
	if project {
		if projectDir, err = ctx.Cwd(); err != nil {
			return "", err
		}
	}
	return setup.ConfigPath(agent, home, projectDir), nil
}

//revive:enable:flag-parameter
