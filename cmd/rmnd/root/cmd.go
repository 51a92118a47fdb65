// Package rootcmd wires the root cobra.Command for the rmnd CLI binary.
package rootcmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	addcmd "github.com/go-ports/rmnd/cmd/rmnd/add"
	configcmd "github.com/go-ports/rmnd/cmd/rmnd/config"
	initcmd "github.com/go-ports/rmnd/cmd/rmnd/init"
	mcpcmd "github.com/go-ports/rmnd/cmd/rmnd/mcp"
	priocmd "github.com/go-ports/rmnd/cmd/rmnd/prio"
	remindcmd "github.com/go-ports/rmnd/cmd/rmnd/remind"
	removecmd "github.com/go-ports/rmnd/cmd/rmnd/remove"
	setupcmd "github.com/go-ports/rmnd/cmd/rmnd/setup"
	"github.com/go-ports/rmnd/cmd/rmnd/shared"
	showcmd "github.com/go-ports/rmnd/cmd/rmnd/show"
	"github.com/go-ports/rmnd/internal/buildinfo"
)

// New creates and returns the root cobra.Command for the rmnd CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "rmnd",
		Short:         "A CLI tool for reminders",
		Long:          "rmnd keeps global reminders and per-directory reminders in plain TOML files and shows the ones that apply where you are.",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if ctx.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&ctx.ConfigDir, "config-dir", "",
		"Directory holding the global rmnd.toml (default: ~/.config)")
	pf.StringVarP(&ctx.WorkDir, "dir", "C", "",
		"Run as if rmnd was started in this directory")
	pf.BoolVar(&ctx.Verbose, "verbose", false, "Log config resolution to stderr")

	root.AddCommand(
		showcmd.New(ctx).Cmd(),
		addcmd.New(ctx).Cmd(),
		remindcmd.New(ctx).Cmd(),
		removecmd.New(ctx).Cmd(),
		priocmd.New(ctx).Cmd(),
		initcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
	)

	return root
}
