package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/lsfremote/internal/connection"
	"github.com/five82/lsfremote/internal/lumasonic"
	"github.com/five82/lsfremote/internal/notify"
	"github.com/five82/lsfremote/internal/remote"
	"github.com/five82/lsfremote/internal/state"
)

// player records the calls the model sends.
type player struct {
	mu    sync.Mutex
	calls []string
	items []string
	seeks []float64
	gains []float64
	loads []int
}

func (p *player) record(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, op)
}

func (p *player) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *player) State(context.Context) (lumasonic.PlayerState, error) {
	p.record(lumasonic.OpState)
	return lumasonic.PlayerState{}, errors.New("not used")
}

func (p *player) PlaylistItems(context.Context) ([]string, error) {
	p.record(lumasonic.OpPlaylistItems)
	return p.items, nil
}

func (p *player) Play(context.Context) error  { p.record(lumasonic.OpPlay); return nil }
func (p *player) Pause(context.Context) error { p.record(lumasonic.OpPause); return nil }
func (p *player) Stop(context.Context) error  { p.record(lumasonic.OpStop); return nil }

func (p *player) Seek(_ context.Context, _ lumasonic.SeekUnit, v float64) error {
	p.mu.Lock()
	p.seeks = append(p.seeks, v)
	p.mu.Unlock()
	p.record(lumasonic.OpTime)
	return nil
}

func (p *player) SetGain(_ context.Context, v float64) error {
	p.mu.Lock()
	p.gains = append(p.gains, v)
	p.mu.Unlock()
	p.record(lumasonic.OpGain)
	return nil
}

func (p *player) SetBrightness(context.Context, float64) error {
	p.record(lumasonic.OpBrightness)
	return nil
}

func (p *player) SetLoop(context.Context, bool) error { p.record(lumasonic.OpLoop); return nil }

func (p *player) LoadPlaylistItem(_ context.Context, i int) error {
	p.mu.Lock()
	p.loads = append(p.loads, i)
	p.mu.Unlock()
	p.record(lumasonic.OpLoadPlaylistItem)
	return nil
}

func (p *player) LoadFile(context.Context, string) error { p.record(lumasonic.OpLoadFile); return nil }

func newModel(t *testing.T, opts Options) (Model, *player) {
	t.Helper()
	fp := &player{items: []string{"a.wav", "b.wav", "c.wav"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var notifier notify.Notifier = notify.Discard
	if opts.Tray != nil {
		notifier = opts.Tray
	}
	opts.Session = remote.NewSession(fp, notifier, logger)
	opts.Logger = logger
	opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	m := New(opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, fp
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// complete runs a command tea.Cmd and feeds its result back.
func complete(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, commandResultMsg{}, msg)
	return update(t, m, msg)
}

func snapshot(file string, playing bool, timeSec, length float64) lumasonic.PlayerState {
	gain, bri := 0.4, 0.8
	return lumasonic.PlayerState{
		Success:    true,
		TimeSec:    timeSec,
		LengthSec:  length,
		Playing:    playing,
		FileLoaded: file != "",
		FileName:   file,
		Gain:       &gain,
		Brightness: &bri,
	}
}

func withPlaylist(st lumasonic.PlayerState, index, n int) lumasonic.PlayerState {
	st.Playlist = &lumasonic.PlaylistSummary{Index: index, NumItems: n}
	return st
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_PollFetchesItemsAndFollowsCurrentFile(t *testing.T) {
	m, fp := newModel(t, Options{})

	m, cmd := updateCmd(t, m, pollResultMsg{State: withPlaylist(snapshot("b.wav", true, 3, 100), 1, 3)})
	require.NotNil(t, cmd, "a new playlist triggers an items fetch")
	m = update(t, m, cmd())

	assert.Equal(t, []string{lumasonic.OpPlaylistItems}, fp.Calls())
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, "b.wav", m.followFile)

	// moving the cursor does not fight the follow logic until the file changes
	m = update(t, m, keyRunes("j"))
	m = update(t, m, pollResultMsg{State: withPlaylist(snapshot("b.wav", true, 4, 100), 1, 3)})
	assert.Equal(t, 2, m.cursor)

	m = update(t, m, pollResultMsg{State: withPlaylist(snapshot("a.wav", true, 0, 100), 0, 3)})
	assert.Equal(t, 0, m.cursor)
}

func TestModel_TickSkipsWhilePollInFlight(t *testing.T) {
	m, _ := newModel(t, Options{})
	require.NotNil(t, m.session.Poll())

	_, cmd := updateCmd(t, m, tickMsg{})
	require.NotNil(t, cmd, "the next tick is always scheduled")
	assert.True(t, m.session.Polling())
}

func TestModel_PlayPauseFollowsAvailability(t *testing.T) {
	m, fp := newModel(t, Options{})
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	_, cmd := updateCmd(t, m, space)
	assert.Nil(t, cmd, "nothing loaded")

	m = update(t, m, pollResultMsg{State: snapshot("x.wav", false, 10, 100)})
	m, cmd = updateCmd(t, m, space)
	m = complete(t, m, cmd)
	assert.True(t, m.session.State().Playing)

	m, cmd = updateCmd(t, m, space)
	complete(t, m, cmd)
	assert.Equal(t, []string{lumasonic.OpPlay, lumasonic.OpPause}, fp.Calls())
}

func TestModel_ScrubCommitsOnEnter(t *testing.T) {
	m, fp := newModel(t, Options{})
	m = update(t, m, pollResultMsg{State: snapshot("x.wav", true, 10, 100)})

	right := tea.KeyMsg{Type: tea.KeyRight}
	m = update(t, m, right)
	m = update(t, m, right)
	assert.True(t, m.session.Tracker().Active(state.ControlProgress))
	assert.InDelta(t, 20, m.session.State().CurrentTimeSec, 1e-9)
	assert.Empty(t, fp.Calls(), "scrubbing is local until committed")

	// a poll during the scrub does not move the playhead
	m = update(t, m, pollResultMsg{State: snapshot("x.wav", true, 11, 100)})
	assert.InDelta(t, 20, m.session.State().CurrentTimeSec, 1e-9)

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	complete(t, m, cmd)
	assert.False(t, m.session.Tracker().Active(state.ControlProgress))
	assert.Equal(t, []float64{20}, fp.seeks)
}

func TestModel_ScrubReleasesWhenIdle(t *testing.T) {
	m, fp := newModel(t, Options{})
	m = update(t, m, pollResultMsg{State: snapshot("x.wav", false, 50, 100)})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	stale := m.releaseSeq[state.ControlProgress]
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})

	_, cmd := updateCmd(t, m, releaseMsg{control: state.ControlProgress, seq: stale})
	assert.Nil(t, cmd, "a newer key press re-armed the timer")
	assert.True(t, m.session.Tracker().Active(state.ControlProgress))

	m, cmd = updateCmd(t, m, releaseMsg{control: state.ControlProgress, seq: m.releaseSeq[state.ControlProgress]})
	complete(t, m, cmd)
	assert.Equal(t, []float64{40}, fp.seeks)
}

func TestModel_VolumeKeysSendEachStep(t *testing.T) {
	m, fp := newModel(t, Options{})
	m = update(t, m, pollResultMsg{State: snapshot("x.wav", true, 0, 100)})

	m, cmd := updateCmd(t, m, keyRunes("+"))
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "send plus idle timer")
	m = update(t, m, batch[0]())

	assert.Equal(t, []float64{0.45}, fp.gains)
	assert.True(t, m.session.Tracker().Active(state.ControlVolume))

	// a stale poll does not overwrite the adjusted value mid-drag
	m = update(t, m, pollResultMsg{State: snapshot("x.wav", true, 1, 100)})
	assert.InDelta(t, 0.45, m.session.State().Volume, 1e-9)

	m, cmd = updateCmd(t, m, releaseMsg{control: state.ControlVolume, seq: m.releaseSeq[state.ControlVolume]})
	assert.Nil(t, cmd, "ending a slider drag sends nothing")
	assert.False(t, m.session.Tracker().Active(state.ControlVolume))
}

func TestModel_MouseDragSeeksOnRelease(t *testing.T) {
	m, fp := newModel(t, Options{Mouse: true})
	m = update(t, m, pollResultMsg{State: snapshot("x.wav", true, 0, 100)})
	l := newLayout(m.width, m.height)

	press := tea.MouseMsg{X: l.progress.x, Y: progressRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, cmd := updateCmd(t, m, press)
	assert.Nil(t, cmd, "pressing the handle starts a drag")
	require.True(t, m.session.Tracker().Active(state.ControlProgress))

	mid := l.progress.x + (l.progress.width-1)/2
	m = update(t, m, tea.MouseMsg{X: mid, Y: progressRow + 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	want := l.progress.fraction(mid) * 100
	assert.InDelta(t, want, m.session.State().CurrentTimeSec, 1e-9)

	// release away from the bar still ends the drag
	m, cmd = updateCmd(t, m, tea.MouseMsg{X: 0, Y: 20, Action: tea.MouseActionRelease})
	complete(t, m, cmd)
	require.Len(t, fp.seeks, 1)
	assert.InDelta(t, want, fp.seeks[0], 1e-9)
}

func TestModel_MouseClickSeeksAndLoads(t *testing.T) {
	m, fp := newModel(t, Options{Mouse: true})
	m = update(t, m, pollResultMsg{State: withPlaylist(snapshot("a.wav", true, 0, 100), 0, 3)})
	m = update(t, m, itemsResultMsg{Items: []string{"a.wav", "b.wav", "c.wav"}})
	l := newLayout(m.width, m.height)

	end := l.progress.x + l.progress.width - 1
	m, cmd := updateCmd(t, m, tea.MouseMsg{X: end, Y: progressRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = complete(t, m, cmd)
	assert.Equal(t, []float64{100}, fp.seeks)

	m, cmd = updateCmd(t, m, tea.MouseMsg{X: 5, Y: firstItemRow + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = complete(t, m, cmd)
	assert.Equal(t, []int{2}, fp.loads)
	assert.Equal(t, "c.wav", m.session.State().CurrentFile)
	assert.Equal(t, 2, m.cursor)
}

func TestModel_MouseVolumeDrag(t *testing.T) {
	m, fp := newModel(t, Options{Mouse: true})
	m = update(t, m, pollResultMsg{State: snapshot("x.wav", true, 0, 100)})
	l := newLayout(m.width, m.height)

	m, cmd := updateCmd(t, m, tea.MouseMsg{X: l.volume.x, Y: volumeRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = complete(t, m, cmd)
	m, cmd = updateCmd(t, m, tea.MouseMsg{X: l.volume.x + l.volume.width - 1, Y: volumeRow, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = complete(t, m, cmd)
	assert.Equal(t, []float64{0, 1}, fp.gains)

	m, cmd = updateCmd(t, m, tea.MouseMsg{Action: tea.MouseActionRelease})
	assert.Nil(t, cmd)
	assert.False(t, m.session.Tracker().AnyActive())
}

func TestModel_EnterLoadsCursorItem(t *testing.T) {
	m, fp := newModel(t, Options{})
	m = update(t, m, pollResultMsg{State: withPlaylist(snapshot("a.wav", true, 0, 100), 0, 3)})
	m = update(t, m, itemsResultMsg{Items: []string{"a.wav", "b.wav", "c.wav"}})

	_, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "the cursor is on the current file")

	m = update(t, m, keyRunes("j"))
	m, cmd = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	complete(t, m, cmd)
	assert.Equal(t, []int{1}, fp.loads)
}

func TestModel_OpenFilePrompt(t *testing.T) {
	m, fp := newModel(t, Options{})
	m = update(t, m, keyRunes("o"))
	require.True(t, m.showPrompt)

	m = update(t, m, keyRunes("/media/y.wav"))
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.showPrompt)
	complete(t, m, cmd)
	assert.Equal(t, []string{lumasonic.OpLoadFile}, fp.Calls())
	assert.Equal(t, "y.wav", m.session.State().CurrentFile)
}

func TestModel_ThemeCycleSavesPrefs(t *testing.T) {
	m, _ := newModel(t, Options{ThemeName: "Dracula"})
	m = update(t, m, keyRunes("T"))
	assert.Equal(t, "Nightfox", m.theme.Name)
	assert.FileExists(t, m.prefsPath)
}

func TestModel_ViewShowsStateAndBanner(t *testing.T) {
	tray := notify.NewTray(notify.DefaultTTL, nil)
	t.Cleanup(tray.Close)
	mon := connection.New(connection.Options{Notifier: tray, Debounce: 1})

	m, _ := newModel(t, Options{Tray: tray, Monitor: mon, Address: "player:8080"})
	m = update(t, m, pollResultMsg{State: withPlaylist(snapshot("a.wav", true, 65, 125), 0, 3)})
	m = update(t, m, itemsResultMsg{Items: []string{"a.wav", "b.wav", "c.wav"}})

	view := m.View()
	assert.Len(t, strings.Split(view, "\n"), 24)
	assert.Contains(t, view, "player:8080")
	assert.Contains(t, view, "a.wav")
	assert.Contains(t, view, "1:05 / 2:05")
	assert.Contains(t, view, "3 tracks")
	assert.Contains(t, view, "40%")

	mon.Observe(&lumasonic.ConnectivityError{Op: lumasonic.OpState}, true)
	view = m.View()
	assert.Contains(t, view, "Connection lost")
	assert.Contains(t, view, connection.MessageLost)
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := newModel(t, Options{})
	m = update(t, m, keyRunes("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = update(t, m, keyRunes("z"))
	assert.False(t, m.showHelp)
}
