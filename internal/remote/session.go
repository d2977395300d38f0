package remote

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path"
	"slices"

	"github.com/five82/lsfremote/internal/lumasonic"
	"github.com/five82/lsfremote/internal/notify"
	"github.com/five82/lsfremote/internal/state"
)

// Session owns the local player state and turns user intents into optimistic
// changes plus remote commands. It is not safe for concurrent use: one
// goroutine (the UI update loop or a Loop) must own it.
type Session struct {
	player   lumasonic.Player
	notifier notify.Notifier
	logger   *slog.Logger

	state    state.Player
	tracker  state.Tracker
	playlist state.Playlist
	polling  bool
}

// NewSession returns a session in the startup state.
func NewSession(player lumasonic.Player, notifier notify.Notifier, logger *slog.Logger) *Session {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		player:   player,
		notifier: notifier,
		logger:   logger,
		state:    state.NewPlayer(),
	}
}

// State returns the local player state.
func (s *Session) State() state.Player { return s.state }

// Tracker returns the interaction flags.
func (s *Session) Tracker() state.Tracker { return s.tracker }

// Playlist returns a copy of the playlist model.
func (s *Session) Playlist() state.Playlist { return s.playlist.Clone() }

// Polling reports whether a poll is in flight.
func (s *Session) Polling() bool { return s.polling }

// Reset returns to the startup state.
func (s *Session) Reset() {
	s.state = state.NewPlayer()
	s.tracker = state.Tracker{}
	s.playlist = state.Playlist{}
	s.polling = false
}

// Play resumes playback.
func (s *Session) Play() *Command {
	s.state.Playing = true
	s.tracker.StopPending = false
	return s.command(lumasonic.OpPlay, "Playing", "Play failed", s.player.Play)
}

// Pause pauses playback.
func (s *Session) Pause() *Command {
	s.state.Playing = false
	s.tracker.StopPending = false
	return s.command(lumasonic.OpPause, "Paused", "Pause failed", s.player.Pause)
}

// TogglePlay pauses when playing and plays otherwise.
func (s *Session) TogglePlay() *Command {
	if s.state.Playing {
		return s.Pause()
	}
	return s.Play()
}

// Stop stops playback and holds the time at zero until the player agrees.
func (s *Session) Stop() *Command {
	s.state.Playing = false
	s.state.CurrentTimeSec = 0
	s.tracker.StopPending = true
	return s.command(lumasonic.OpStop, "Stopped", "Stop failed", s.player.Stop)
}

// SetVolume sets the gain, clamped to [0,1].
func (s *Session) SetVolume(v float64) *Command {
	v = state.Clamp01(v)
	s.state.Volume = v
	return s.command(lumasonic.OpGain,
		fmt.Sprintf("Volume: %d%%", percent(v)), "Volume change failed",
		func(ctx context.Context) error { return s.player.SetGain(ctx, v) })
}

// SetBrightness sets the brightness, clamped to [0,1].
func (s *Session) SetBrightness(v float64) *Command {
	v = state.Clamp01(v)
	s.state.Brightness = v
	return s.command(lumasonic.OpBrightness,
		fmt.Sprintf("Brightness: %d%%", percent(v)), "Brightness change failed",
		func(ctx context.Context) error { return s.player.SetBrightness(ctx, v) })
}

// SetLoop sets the loop flag.
func (s *Session) SetLoop(loop bool) *Command {
	s.state.Looping = loop
	msg := "Loop disabled"
	if loop {
		msg = "Loop enabled"
	}
	return s.command(lumasonic.OpLoop, msg, "Loop change failed",
		func(ctx context.Context) error { return s.player.SetLoop(ctx, loop) })
}

// ToggleLoop flips the loop flag.
func (s *Session) ToggleLoop() *Command {
	return s.SetLoop(!s.state.Looping)
}

// Seek moves the playhead to sec. The next snapshot's time is ignored so a
// stale report cannot pull the position back.
func (s *Session) Seek(sec float64) *Command {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	s.state.CurrentTimeSec = sec
	s.tracker.IgnoreNextTimeUpdate = true
	return s.command(lumasonic.OpTime, fmt.Sprintf("Seek to %s", FormatTime(sec)), "Seek failed",
		func(ctx context.Context) error { return s.player.Seek(ctx, lumasonic.UnitSeconds, sec) })
}

// SeekPercent moves the playhead to fraction p of the track, sent as a
// percent seek.
func (s *Session) SeekPercent(p float64) *Command {
	p = state.Clamp01(p)
	s.state.CurrentTimeSec = p * s.state.TotalTimeSec
	s.tracker.IgnoreNextTimeUpdate = true
	return s.command(lumasonic.OpTime, fmt.Sprintf("Seek to %d%%", percent(p)), "Seek failed",
		func(ctx context.Context) error { return s.player.Seek(ctx, lumasonic.UnitPercent, p) })
}

// SeekBy seeks relative to the current position, bounded by the track.
func (s *Session) SeekBy(delta float64) *Command {
	target := s.state.CurrentTimeSec + delta
	if s.state.TotalTimeSec > 0 && target > s.state.TotalTimeSec {
		target = s.state.TotalTimeSec
	}
	return s.Seek(target)
}

// ClickSeek seeks to fraction f of the track, as a click on the progress bar
// does. It is ignored while the bar is being dragged or the length is
// unknown.
func (s *Session) ClickSeek(f float64) *Command {
	if s.tracker.Active(state.ControlProgress) || s.state.TotalTimeSec <= 0 {
		return nil
	}
	return s.Seek(state.Clamp01(f) * s.state.TotalTimeSec)
}

// BeginDrag marks c as being dragged.
func (s *Session) BeginDrag(c state.Control) {
	s.tracker.Begin(c)
}

// DragProgress moves the local playhead while the progress bar is dragged.
// Nothing is sent until the drag ends.
func (s *Session) DragProgress(sec float64) {
	if !s.tracker.Active(state.ControlProgress) {
		return
	}
	if sec < 0 {
		sec = 0
	}
	if s.state.TotalTimeSec > 0 && sec > s.state.TotalTimeSec {
		sec = s.state.TotalTimeSec
	}
	s.state.CurrentTimeSec = sec
}

// EndDrag ends the drag of c. Ending a progress drag seeks to the dragged
// position.
func (s *Session) EndDrag(c state.Control) *Command {
	if !s.tracker.End(c) {
		return nil
	}
	return s.afterDrag(c)
}

// ReleaseAll ends every drag, as a pointer release anywhere does. The
// returned command, if any, is the final seek of a progress drag.
func (s *Session) ReleaseAll() *Command {
	if !s.tracker.AnyActive() {
		return nil
	}
	var cmd *Command
	for _, c := range s.tracker.ReleaseAll() {
		if next := s.afterDrag(c); next != nil {
			cmd = next
		}
	}
	return cmd
}

func (s *Session) afterDrag(c state.Control) *Command {
	if c != state.ControlProgress || s.state.TotalTimeSec <= 0 {
		return nil
	}
	return s.Seek(s.state.CurrentTimeSec)
}

// LoadPlaylistItem switches to the item at index. Selecting the current file
// or an index outside the playlist issues nothing.
func (s *Session) LoadPlaylistItem(index int) *Command {
	if index < 0 || index >= len(s.playlist.Items) {
		return nil
	}
	item := s.playlist.Items[index]
	if s.state.CurrentFile != "" && item == s.state.CurrentFile {
		return nil
	}
	s.state.CurrentFile = item
	return s.command(lumasonic.OpLoadPlaylistItem,
		fmt.Sprintf("Loaded playlist item %d", index+1), "Failed to load playlist item",
		func(ctx context.Context) error { return s.player.LoadPlaylistItem(ctx, index) })
}

// Previous loads the item before the current file.
func (s *Session) Previous() *Command {
	if !s.playlist.HasPlaylist {
		return nil
	}
	i, ok := state.PreviousIndex(s.state.CurrentFile, s.playlist.Items)
	if !ok {
		return nil
	}
	return s.LoadPlaylistItem(i)
}

// Next loads the item after the current file.
func (s *Session) Next() *Command {
	if !s.playlist.HasPlaylist {
		return nil
	}
	i, ok := state.NextIndex(s.state.CurrentFile, s.playlist.Items)
	if !ok {
		return nil
	}
	return s.LoadPlaylistItem(i)
}

// LoadFile loads a file by path on the player host.
func (s *Session) LoadFile(filePath string) *Command {
	if filePath == "" {
		return nil
	}
	s.state.CurrentFile = path.Base(filePath)
	s.state.CurrentTimeSec = 0
	return s.command(lumasonic.OpLoadFile, "Loaded "+s.state.CurrentFile, "Failed to load file",
		func(ctx context.Context) error { return s.player.LoadFile(ctx, filePath) })
}

// Complete reports the outcome of a command. The optimistic change is never
// rolled back; the next poll corrects it.
func (s *Session) Complete(r Result) {
	switch {
	case r.Err == nil:
		s.notifier.Notify(notify.KindInfo, r.Success)
	case lumasonic.IsApplication(r.Err):
		s.logger.Error("command failed", "op", r.Op, "error", r.Err)
		s.notifier.Notify(notify.KindError, r.Failure)
	default:
		// connectivity failures are reported by the connection monitor
		s.logger.Debug("command not delivered", "op", r.Op, "error", r.Err)
	}
}

// Poll starts a poll. It returns nil while a previous poll is unresolved.
func (s *Session) Poll() *PollCommand {
	if s.polling {
		return nil
	}
	s.polling = true
	return &PollCommand{player: s.player}
}

// ApplyPoll merges a poll result. A failed poll leaves the state untouched.
// When a playlist has just appeared the returned command fetches its items.
func (s *Session) ApplyPoll(r PollResult) *ItemsCommand {
	s.polling = false
	if r.Err != nil {
		if lumasonic.IsApplication(r.Err) {
			s.logger.Warn("state poll rejected", "error", r.Err)
		}
		return nil
	}
	s.state, s.tracker = state.Reconcile(s.state, s.tracker, r.State)

	var fetch bool
	s.playlist, fetch = state.ReconcilePlaylist(s.playlist, r.State)
	if fetch {
		return &ItemsCommand{player: s.player}
	}
	return nil
}

// ApplyItems installs fetched playlist items. Items arriving after the
// playlist went away are dropped. A failed fetch is not retried.
func (s *Session) ApplyItems(r ItemsResult) {
	if r.Err != nil {
		if lumasonic.IsApplication(r.Err) {
			s.logger.Warn("playlist items rejected", "error", r.Err)
		}
		return
	}
	if !s.playlist.HasPlaylist {
		return
	}
	s.playlist.Items = slices.Clone(r.Items)
}

// Sync runs one poll, and the item fetch it asks for, on the calling
// goroutine. The error is that of the state poll; a failed item fetch is
// handled by ApplyItems and leaves the playlist without items.
func (s *Session) Sync(ctx context.Context) error {
	cmd := s.Poll()
	if cmd == nil {
		return fmt.Errorf("poll already in flight")
	}
	res := cmd.Run(ctx)
	if items := s.ApplyPoll(res); items != nil {
		s.ApplyItems(items.Run(ctx))
	}
	return res.Err
}

// Execute runs cmd on the calling goroutine and completes it.
func (s *Session) Execute(ctx context.Context, cmd *Command) error {
	if cmd == nil {
		return nil
	}
	res := cmd.Run(ctx)
	s.Complete(res)
	return res.Err
}

func (s *Session) command(op, success, failure string, call func(ctx context.Context) error) *Command {
	return &Command{Op: op, success: success, failure: failure, call: call}
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}
