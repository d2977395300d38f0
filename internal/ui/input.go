package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lsfremote/internal/remote"
	"github.com/five82/lsfremote/internal/state"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.showPrompt {
		return m.handlePromptKey(msg)
	}

	k := m.keys
	s := m.session
	p := s.State()

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, k.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, k.Dismiss):
		if m.tray != nil {
			m.tray.DismissAll()
		}
		return m, nil

	case key.Matches(msg, k.Escape):
		return m, m.send(s.ReleaseAll())

	case key.Matches(msg, k.PlayPause):
		switch {
		case p.CanPause():
			return m, m.send(s.Pause())
		case p.CanPlay():
			return m, m.send(s.Play())
		}
		return m, nil

	case key.Matches(msg, k.Stop):
		if !p.CanStop() {
			return m, nil
		}
		return m, m.send(s.Stop())

	case key.Matches(msg, k.Loop):
		return m, m.send(s.ToggleLoop())

	case key.Matches(msg, k.OpenFile):
		m.showPrompt = true
		m.prompt.SetValue("")
		return m, m.prompt.Focus()

	case key.Matches(msg, k.ScrubBack):
		return m.scrub(-scrubStep)

	case key.Matches(msg, k.ScrubForward):
		return m.scrub(scrubStep)

	case key.Matches(msg, k.SeekBack), key.Matches(msg, k.SeekForward):
		if s.Tracker().Active(state.ControlProgress) || !p.HasFile() {
			return m, nil
		}
		delta := seekStep
		if key.Matches(msg, k.SeekBack) {
			delta = -seekStep
		}
		return m, m.send(s.SeekBy(delta))

	case key.Matches(msg, k.VolumeDown):
		return m.adjustLevel(state.ControlVolume, -levelStep)

	case key.Matches(msg, k.VolumeUp):
		return m.adjustLevel(state.ControlVolume, levelStep)

	case key.Matches(msg, k.BrightnessDown):
		return m.adjustLevel(state.ControlBrightness, -levelStep)

	case key.Matches(msg, k.BrightnessUp):
		return m.adjustLevel(state.ControlBrightness, levelStep)

	case key.Matches(msg, k.Next):
		return m, m.send(s.Next())

	case key.Matches(msg, k.Prev):
		return m, m.send(s.Previous())

	case key.Matches(msg, k.Up):
		m.cursor--
		m.clampCursor(len(s.Playlist().Items))
		return m, nil

	case key.Matches(msg, k.Down):
		m.cursor++
		m.clampCursor(len(s.Playlist().Items))
		return m, nil

	case key.Matches(msg, k.Confirm):
		if s.Tracker().Active(state.ControlProgress) {
			m.cancelRelease(state.ControlProgress)
			return m, m.send(s.EndDrag(state.ControlProgress))
		}
		return m, m.send(s.LoadPlaylistItem(m.cursor))
	}

	return m, nil
}

// handlePromptKey edits the load-file prompt.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.showPrompt = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.prompt.Value())
		m.showPrompt = false
		m.prompt.Blur()
		return m, m.send(m.session.LoadFile(path))
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// scrub moves the local playhead as a keyboard drag of the progress bar.
// The seek is sent when the drag ends.
func (m Model) scrub(delta float64) (tea.Model, tea.Cmd) {
	p := m.session.State()
	if p.TotalTimeSec <= 0 {
		return m, nil
	}
	if !m.session.Tracker().Active(state.ControlProgress) {
		m.session.BeginDrag(state.ControlProgress)
	}
	m.session.DragProgress(p.DisplayTime() + delta)
	return m, m.armRelease(state.ControlProgress, scrubIdle)
}

// adjustLevel nudges volume or brightness. Each step is sent at once; the
// control stays marked as dragged until the keys go idle so a stale poll
// cannot pull the value back mid-adjustment.
func (m Model) adjustLevel(c state.Control, delta float64) (tea.Model, tea.Cmd) {
	m.session.BeginDrag(c)
	cmd := m.setLevel(c, m.level(c)+delta)
	return m, tea.Batch(m.send(cmd), m.armRelease(c, sliderIdle))
}

func (m Model) level(c state.Control) float64 {
	p := m.session.State()
	if c == state.ControlBrightness {
		return p.Brightness
	}
	return p.Volume
}

func (m Model) setLevel(c state.Control, v float64) *remote.Command {
	v = math.Round(v*100) / 100
	if c == state.ControlBrightness {
		return m.session.SetBrightness(v)
	}
	return m.session.SetVolume(v)
}

// handleMouse implements press-to-drag on the three bars, click-to-seek on
// the progress bar and click-to-load on the playlist. A release anywhere
// ends every drag.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.showPrompt {
		return m, nil
	}
	l := newLayout(m.width, m.height)
	s := m.session
	n := len(s.Playlist().Items)

	switch msg.Action {
	case tea.MouseActionRelease:
		return m, m.send(s.ReleaseAll())

	case tea.MouseActionMotion:
		t := s.Tracker()
		switch {
		case t.Active(state.ControlProgress):
			s.DragProgress(l.progress.fraction(msg.X) * s.State().TotalTimeSec)
		case t.Active(state.ControlVolume):
			return m, m.send(m.setLevel(state.ControlVolume, l.volume.fraction(msg.X)))
		case t.Active(state.ControlBrightness):
			return m, m.send(m.setLevel(state.ControlBrightness, l.brightness.fraction(msg.X)))
		}
		return m, nil

	case tea.MouseActionPress:
	default:
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursor--
		m.clampCursor(n)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.cursor++
		m.clampCursor(n)
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	switch {
	case msg.Y == progressRow && l.progress.contains(msg.X):
		p := s.State()
		if p.TotalTimeSec <= 0 {
			return m, nil
		}
		if abs(msg.X-l.progress.handle(p.Progress())) <= 1 {
			m.cancelRelease(state.ControlProgress)
			s.BeginDrag(state.ControlProgress)
			s.DragProgress(l.progress.fraction(msg.X) * p.TotalTimeSec)
			return m, nil
		}
		return m, m.send(s.ClickSeek(l.progress.fraction(msg.X)))

	case msg.Y == volumeRow && l.volume.contains(msg.X):
		m.cancelRelease(state.ControlVolume)
		s.BeginDrag(state.ControlVolume)
		return m, m.send(m.setLevel(state.ControlVolume, l.volume.fraction(msg.X)))

	case msg.Y == brightnessRow && l.brightness.contains(msg.X):
		m.cancelRelease(state.ControlBrightness)
		s.BeginDrag(state.ControlBrightness)
		return m, m.send(m.setLevel(state.ControlBrightness, l.brightness.fraction(msg.X)))
	}

	if idx, ok := l.itemAt(msg.Y, m.cursor, n); ok {
		m.cursor = idx
		return m, m.send(s.LoadPlaylistItem(idx))
	}
	return m, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
