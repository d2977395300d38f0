package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lsfremote/internal/remote"
	"github.com/five82/lsfremote/internal/state"
)

// renderMain renders the remote screen, one string per fixed row.
func (m Model) renderMain() string {
	l := newLayout(m.width, m.height)
	bg := NewBgStyle(m.theme.Background)

	lines := make([]string, max(1, m.height))
	for i := range lines {
		lines[i] = bg.FillLine("", m.width)
	}
	set := func(row int, content string) {
		if row < len(lines)-1 || row == 0 {
			lines[row] = bg.FillLine(content, m.width)
		}
	}

	p := m.session.State()
	set(headerRow, m.renderHeader())
	set(notifyRow, m.renderNotification())
	set(fileRow, m.renderFile(p))
	set(progressRow, m.renderProgress(l, p))
	set(transportRow, m.renderTransport(p))
	set(volumeRow, m.renderLevel("Volume", p.Volume, l.volume, m.theme.VolumeBar, state.ControlVolume))
	set(brightnessRow, m.renderLevel("Brightness", p.Brightness, l.brightness, m.theme.BrightnessBar, state.ControlBrightness))
	m.renderPlaylist(l, p, set)
	if len(lines) > 1 {
		lines[len(lines)-1] = m.renderFooter()
	}
	return strings.Join(lines, "\n")
}

// renderHeader renders the title bar with the player address and link state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	link := bg.Render("● connected", styles.SuccessText)
	if !m.connected() {
		link = bg.Render("● disconnected", styles.DangerText)
	}
	parts := []string{
		bg.Render("lsfremote", styles.Logo),
		bg.Render(m.address, styles.MutedText),
		link,
	}
	if m.session.Polling() {
		parts = append(parts, bg.Render("polling", styles.FaintText))
	}
	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderNotification shows the newest visible notification.
func (m Model) renderNotification() string {
	if m.tray == nil {
		return ""
	}
	visible := m.tray.Visible()
	if len(visible) == 0 {
		return ""
	}
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	latest := visible[len(visible)-1]
	line := bg.Spaces(barIndent) +
		bg.Render(latest.Kind.String(), styles.KindStyle(latest.Kind)) + bg.Spaces(1) +
		bg.Render(truncate(latest.Message, m.width-20), styles.Text)
	if more := len(visible) - 1; more > 0 {
		line += bg.Spaces(2) + bg.Render(fmt.Sprintf("+%d more (x to dismiss)", more), styles.FaintText)
	}
	return line
}

// renderFile shows the current file, or the banner while the player is
// unreachable.
func (m Model) renderFile(p state.Player) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	if !m.connected() {
		return bg.Spaces(barIndent) + styles.Banner.Render("Connection lost. Retrying...")
	}
	if !p.HasFile() {
		return bg.Spaces(barIndent) + bg.Render("No file loaded", styles.MutedText)
	}
	return bg.Spaces(barIndent) + bg.Render(truncate(p.CurrentFile, m.width-barIndent*2), styles.Text.Bold(true))
}

func (m Model) renderProgress(l layout, p state.Player) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	timeStyle := styles.MutedText
	if m.session.Tracker().Active(state.ControlProgress) {
		timeStyle = styles.AccentText
	}
	times := fmt.Sprintf("%s / %s", remote.FormatTime(p.DisplayTime()), remote.FormatTime(p.TotalTimeSec))
	return bg.Spaces(barIndent) +
		m.bar(l.progress.width, m.theme.ProgressBar, p.Progress()) +
		bg.Spaces(2) + bg.Render(times, timeStyle)
}

func (m Model) renderTransport(p state.Player) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var status string
	switch {
	case !p.HasFile():
		status = bg.Render("■ Idle", styles.FaintText)
	case p.Playing:
		status = bg.Render("▶ Playing", styles.SuccessText)
	case m.session.Tracker().StopPending || p.CurrentTimeSec == 0:
		status = bg.Render("■ Stopped", styles.MutedText)
	default:
		status = bg.Render("⏸ Paused", styles.WarningText)
	}

	loop := bg.Render("loop off", styles.FaintText)
	if p.Looping {
		loop = bg.Render("⟳ loop on", styles.AccentText)
	}
	parts := []string{status, loop}
	if m.session.Tracker().Active(state.ControlProgress) {
		parts = append(parts, bg.Render("scrubbing, enter to commit", styles.InfoText))
	}
	if pl := m.session.Playlist(); pl.HasPlaylist && pl.IsFinished {
		parts = append(parts, bg.Render("playlist finished", styles.MutedText))
	}
	return bg.Spaces(barIndent) + bg.Join(parts, "   ")
}

func (m Model) renderLevel(label string, v float64, s span, color string, c state.Control) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	labelStyle := styles.MutedText
	if m.session.Tracker().Active(c) {
		labelStyle = styles.AccentText
	}
	return bg.Spaces(barIndent) +
		bg.Render(padRight(label, sliderLabelWidth), labelStyle) +
		m.bar(s.width, color, v) +
		bg.Render(fmt.Sprintf("%5d%%", int(math.Round(v*100))), styles.Text)
}

// bar renders a filled bar of exactly width cells.
func (m Model) bar(width int, color string, f float64) string {
	b := progress.New(
		progress.WithSolidFill(color),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	b.EmptyColor = m.theme.BarTrack
	return b.ViewAs(state.Clamp01(f))
}

func (m Model) renderPlaylist(l layout, p state.Player, set func(int, string)) {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	pl := m.session.Playlist()

	if !pl.HasPlaylist {
		set(playlistRow, bg.Spaces(barIndent)+bg.Render("No playlist", styles.FaintText))
		return
	}

	header := bg.Render("Playlist", styles.AccentText.Bold(true)) + bg.Spaces(2) +
		bg.Render(plural(len(pl.Items), "track"), styles.MutedText)
	if i := pl.IndexOf(p.CurrentFile); i >= 0 {
		header += bg.Spaces(2) + bg.Render(fmt.Sprintf("playing %d/%d", i+1, len(pl.Items)), styles.MutedText)
	}
	set(playlistRow, bg.Spaces(barIndent)+header)

	offset := listOffset(m.cursor, len(pl.Items), l.listRows)
	for row := 0; row < l.listRows && offset+row < len(pl.Items); row++ {
		idx := offset + row
		name := pl.Items[idx]
		marker := "  "
		style := styles.Text
		if name == p.CurrentFile {
			marker = "▶ "
			style = styles.AccentText.Bold(true)
		}
		text := fmt.Sprintf("%s%3d. %s", marker, idx+1, truncate(name, m.width-barIndent-10))
		if idx == m.cursor {
			text = styles.Selected.Width(m.width - barIndent*2).Render(text)
			set(firstItemRow+row, bg.Spaces(barIndent)+text)
			continue
		}
		set(firstItemRow+row, bg.Spaces(barIndent)+bg.Render(text, style))
	}
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.showPrompt {
		return styles.Footer.Width(m.width).Render(m.prompt.View())
	}
	return styles.Footer.Width(m.width).Render(m.help.View(m.keys))
}

// helpKeyStyle renders a key in the help overlay.
func (m Model) helpKeyStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
}
