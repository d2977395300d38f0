package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the remote.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Dismiss    key.Binding
	Escape     key.Binding

	// Transport
	PlayPause key.Binding
	Stop      key.Binding
	Loop      key.Binding
	OpenFile  key.Binding

	// Position
	ScrubBack    key.Binding
	ScrubForward key.Binding
	SeekBack     key.Binding
	SeekForward  key.Binding

	// Levels
	VolumeDown     key.Binding
	VolumeUp       key.Binding
	BrightnessDown key.Binding
	BrightnessUp   key.Binding

	// Playlist
	Next    key.Binding
	Prev    key.Binding
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Dismiss notifications"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Release drags"),
		),

		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Play/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Stop"),
		),
		Loop: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle loop"),
		),
		OpenFile: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open file"),
		),

		ScrubBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Scrub back"),
		),
		ScrubForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Scrub forward"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Back 10s"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Forward 10s"),
		),

		VolumeDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Volume down"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Volume up"),
		),
		BrightnessDown: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "Brightness down"),
		),
		BrightnessUp: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "Brightness up"),
		),

		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next item"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Previous item"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Load item / commit scrub"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.ScrubBack, k.ScrubForward, k.Next, k.Prev, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Stop, k.Loop, k.OpenFile},
		{k.ScrubBack, k.ScrubForward, k.SeekBack, k.SeekForward},
		{k.VolumeDown, k.VolumeUp, k.BrightnessDown, k.BrightnessUp},
		{k.Next, k.Prev, k.Up, k.Down, k.Confirm},
		{k.Escape, k.Dismiss, k.CycleTheme, k.Help, k.Quit},
	}
}
