package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lsfremote/internal/remote"
	"github.com/five82/lsfremote/internal/state"
)

// Messages

type tickMsg time.Time

type pollResultMsg remote.PollResult

type itemsResultMsg remote.ItemsResult

type commandResultMsg remote.Result

// releaseMsg ends a keyboard drag of control unless a newer key press
// re-armed it (seq no longer current).
type releaseMsg struct {
	control state.Control
	seq     int
}

// trayChangedMsg and connectionMsg only trigger a redraw; the view reads the
// tray and monitor directly.
type trayChangedMsg struct{}

type connectionMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func pollCmd(ctx context.Context, pc *remote.PollCommand) tea.Cmd {
	if pc == nil {
		return nil
	}
	return func() tea.Msg {
		return pollResultMsg(pc.Run(ctx))
	}
}

func itemsCmd(ctx context.Context, ic *remote.ItemsCommand) tea.Cmd {
	if ic == nil {
		return nil
	}
	return func() tea.Msg {
		return itemsResultMsg(ic.Run(ctx))
	}
}

func commandCmd(ctx context.Context, c *remote.Command) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		return commandResultMsg(c.Run(ctx))
	}
}

func releaseCmd(c state.Control, seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return releaseMsg{control: c, seq: seq}
	})
}
