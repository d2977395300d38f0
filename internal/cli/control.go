package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/lsfremote/internal/app"
	"github.com/five82/lsfremote/internal/lumasonic"
	"github.com/five82/lsfremote/internal/remote"
)

// parser turns positional arguments into an intent.
type parser func(args []string) (remote.Intent, error)

func fixed(intent remote.Intent) parser {
	return func([]string) (remote.Intent, error) { return intent, nil }
}

func controlCommands(opts *app.Options) []*cobra.Command {
	controls := []struct {
		use   string
		short string
		args  cobra.PositionalArgs
		parse parser
	}{
		{"play", "Start or resume playback", cobra.NoArgs, fixed((*remote.Session).Play)},
		{"pause", "Pause playback", cobra.NoArgs, fixed((*remote.Session).Pause)},
		{"toggle", "Toggle between play and pause", cobra.NoArgs, fixed((*remote.Session).TogglePlay)},
		{"stop", "Stop playback", cobra.NoArgs, fixed((*remote.Session).Stop)},
		{"next", "Load the next playlist item", cobra.NoArgs, fixed((*remote.Session).Next)},
		{"prev", "Load the previous playlist item", cobra.NoArgs, fixed((*remote.Session).Previous)},
		{"seek <seconds|percent%>", "Move the playhead", cobra.ExactArgs(1), parseSeek},
		{"volume <0-100>", "Set the output gain", cobra.ExactArgs(1), parseLevel((*remote.Session).SetVolume)},
		{"brightness <0-100>", "Set the light brightness", cobra.ExactArgs(1), parseLevel((*remote.Session).SetBrightness)},
		{"loop <on|off>", "Set looping of the current stream", cobra.ExactArgs(1), parseLoop},
		{"item <n>", "Load playlist item n (1-based)", cobra.ExactArgs(1), parseItem},
		{"load <path>", "Load a file by path on the player host", cobra.ExactArgs(1), parseLoad},
	}

	cmds := make([]*cobra.Command, 0, len(controls))
	for _, c := range controls {
		parse := c.parse
		cmds = append(cmds, &cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  c.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				intent, err := parse(args)
				if err != nil {
					return err
				}
				return app.Exec(cmd.Context(), *opts, cmd.OutOrStdout(), intent)
			},
		})
	}
	return cmds
}

func parseSeek(args []string) (remote.Intent, error) {
	unit, value, err := lumasonic.ParseSeek(args[0])
	if err != nil {
		return nil, err
	}
	if unit == lumasonic.UnitPercent {
		return func(s *remote.Session) *remote.Command { return s.SeekPercent(value) }, nil
	}
	return func(s *remote.Session) *remote.Command { return s.Seek(value) }, nil
}

func parseLevel(set func(*remote.Session, float64) *remote.Command) parser {
	return func(args []string) (remote.Intent, error) {
		n, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
		if err != nil || math.IsNaN(n) || n < 0 || n > 100 {
			return nil, fmt.Errorf("level %q must be between 0 and 100", args[0])
		}
		return func(s *remote.Session) *remote.Command { return set(s, n/100) }, nil
	}
}

func parseLoop(args []string) (remote.Intent, error) {
	var loop bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes", "1":
		loop = true
	case "off", "false", "no", "0":
	default:
		return nil, fmt.Errorf("loop %q must be on or off", args[0])
	}
	return func(s *remote.Session) *remote.Command { return s.SetLoop(loop) }, nil
}

func parseItem(args []string) (remote.Intent, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("item %q must be a positive number", args[0])
	}
	return func(s *remote.Session) *remote.Command { return s.LoadPlaylistItem(n - 1) }, nil
}

func parseLoad(args []string) (remote.Intent, error) {
	p := strings.TrimSpace(args[0])
	if p == "" {
		return nil, fmt.Errorf("file path required")
	}
	return func(s *remote.Session) *remote.Command { return s.LoadFile(p) }, nil
}
