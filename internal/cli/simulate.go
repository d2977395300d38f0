package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/five82/lsfremote/internal/app"
	"github.com/five82/lsfremote/internal/playersim"
)

func newSimulateCommand() *cobra.Command {
	var (
		listen string
		length float64
		file   string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate [items...]",
		Short: "Serve a simulated player for trying the remote without hardware",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return app.Simulate(cmd.Context(), listen, playersim.Config{
				Items:  args,
				File:   file,
				Length: length,
			}, logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":8080", "Address to listen on")
	cmd.Flags().Float64Var(&length, "length", playersim.DefaultLength, "Track length in seconds")
	cmd.Flags().StringVar(&file, "file", "demo.wav", "File loaded when no playlist items are given")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log every request")
	return cmd
}
