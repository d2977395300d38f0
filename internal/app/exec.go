package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/five82/lsfremote/internal/config"
	"github.com/five82/lsfremote/internal/lumasonic"
	"github.com/five82/lsfremote/internal/notify"
	"github.com/five82/lsfremote/internal/remote"
	"github.com/five82/lsfremote/internal/state"
)

// ErrNothingToDo is returned when an intent has no command to send, such as
// next on the last playlist item.
var ErrNothingToDo = errors.New("nothing to do")

// Exec polls the player once so the intent sees the current state, then
// applies intent and sends its command. The success message is printed to
// out.
func Exec(ctx context.Context, opts Options, out io.Writer, intent remote.Intent) error {
	cfg, err := Settings(opts)
	if err != nil {
		return err
	}
	notifier := notify.Func(func(kind notify.Kind, msg string) {
		if kind == notify.KindInfo {
			fmt.Fprintln(out, msg)
		}
	})
	c, err := build(cfg, notifier)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.session.Sync(ctx); err != nil {
		return syncError(cfg, err)
	}
	cmd := intent(c.session)
	if cmd == nil {
		return ErrNothingToDo
	}
	return c.session.Execute(ctx, cmd)
}

func syncError(cfg config.Config, err error) error {
	if lumasonic.IsConnectivity(err) {
		return fmt.Errorf("reach player at %s: %w", cfg.Address(), err)
	}
	return fmt.Errorf("read player state: %w", err)
}

// Status polls the player once and prints the result.
func Status(ctx context.Context, opts Options, out io.Writer) error {
	cfg, err := Settings(opts)
	if err != nil {
		return err
	}
	c, err := build(cfg, notify.Discard)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.session.Sync(ctx); err != nil {
		return syncError(cfg, err)
	}
	snap := state.Snapshot{
		Player:    c.session.State(),
		Playlist:  c.session.Playlist(),
		HasState:  true,
		Connected: true,
	}
	fmt.Fprintln(out, Describe(snap))
	for i, item := range snap.Playlist.Items {
		marker := " "
		if item == snap.Player.CurrentFile {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %2d. %s\n", marker, i+1, item)
	}
	return nil
}
