package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/lsfremote/internal/notify"
	"github.com/five82/lsfremote/internal/remote"
	"github.com/five82/lsfremote/internal/state"
)

// Watch runs the remote headless, printing one line per state change and
// every visible notification until ctx is cancelled.
func Watch(ctx context.Context, opts Options, out io.Writer) error {
	cfg, err := Settings(opts)
	if err != nil {
		return err
	}

	w := &syncWriter{w: out}
	notifier := notify.Func(func(kind notify.Kind, msg string) {
		if kind.Visible() {
			w.Printf("%s %s: %s\n", time.Now().Format("15:04:05"), kind, msg)
		}
	})

	c, err := build(cfg, notifier)
	if err != nil {
		return err
	}
	defer c.Close()

	store := state.NewStore()
	c.monitor.OnChange(store.SetConnected)
	loop := remote.NewLoop(c.session, store, cfg.PollInterval, c.logger.With("component", "loop"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return printChanges(gctx, store, cfg.PollInterval, w) })
	return g.Wait()
}

func printChanges(ctx context.Context, store *state.Store, interval time.Duration, w *syncWriter) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last string
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		line := Describe(store.Snapshot())
		if line == last {
			continue
		}
		last = line
		w.Printf("%s %s\n", time.Now().Format("15:04:05"), line)
	}
}

// Describe renders a snapshot as one line.
func Describe(snap state.Snapshot) string {
	if !snap.Connected {
		if snap.LastUpdated.IsZero() {
			return "disconnected"
		}
		return "disconnected (last attempt " + snap.LastUpdated.Format("15:04:05") + ")"
	}
	if !snap.HasState {
		return "waiting for player"
	}

	p := snap.Player
	var b strings.Builder
	switch {
	case !p.HasFile():
		b.WriteString("■ no file loaded")
	case p.Playing:
		b.WriteString("▶ " + p.CurrentFile)
	default:
		b.WriteString("⏸ " + p.CurrentFile)
	}
	fmt.Fprintf(&b, "  %s/%s", remote.FormatTime(p.DisplayTime()), remote.FormatTime(p.TotalTimeSec))
	fmt.Fprintf(&b, "  vol %d%%  bri %d%%", pct(p.Volume), pct(p.Brightness))
	if p.Looping {
		b.WriteString("  loop")
	}
	if pl := snap.Playlist; pl.HasPlaylist {
		if i := pl.IndexOf(p.CurrentFile); i >= 0 {
			fmt.Fprintf(&b, "  [%d/%d]", i+1, len(pl.Items))
		} else {
			fmt.Fprintf(&b, "  [%d tracks]", len(pl.Items))
		}
		if pl.IsFinished {
			b.WriteString(" finished")
		}
	}
	if snap.IsOffline() {
		b.WriteString("  stale")
	}
	return b.String()
}

func pct(v float64) int {
	return int(math.Round(v * 100))
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}
