// Package cli defines the lsfremote command tree.
//
// The bare command starts the TUI. Subcommands poll the player once, send a
// single command and exit, which makes them usable from scripts and key
// bindings of other programs.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/lsfremote/internal/app"
)

// NewRootCommand builds the lsfremote command tree.
func NewRootCommand() *cobra.Command {
	var opts app.Options

	rootCmd := &cobra.Command{
		Use:           "lsfremote",
		Short:         "Remote control for the Lumasonic File Player",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to config file (default ~/.config/lsfremote/config.toml)")
	flags.StringVar(&opts.Host, "host", "", "Player host")
	flags.IntVar(&opts.Port, "port", 0, "Player port")
	flags.IntVar(&opts.PollMS, "poll", 0, "Poll interval in milliseconds")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "Path to UI preferences file")

	rootCmd.AddCommand(
		newStatusCommand(&opts),
		newWatchCommand(&opts),
		newLogsCommand(&opts),
		newSimulateCommand(),
	)
	rootCmd.AddCommand(controlCommands(&opts)...)
	return rootCmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context) int {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "lsfremote: %v\n", err)
		return 1
	}
	return 0
}

func newStatusCommand(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the player state and playlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Status(cmd.Context(), *opts, cmd.OutOrStdout())
		},
	}
}

func newWatchCommand(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a line every time the player state changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Watch(cmd.Context(), *opts, cmd.OutOrStdout())
		},
	}
}

func newLogsCommand(opts *app.Options) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the lsfremote log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Logs(*opts, cmd.OutOrStdout(), lines, level)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&level, "level", "", "Only show records at or above this level")
	return cmd
}
