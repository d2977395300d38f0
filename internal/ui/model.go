package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lsfremote/internal/connection"
	"github.com/five82/lsfremote/internal/notify"
	"github.com/five82/lsfremote/internal/prefs"
	"github.com/five82/lsfremote/internal/remote"
	"github.com/five82/lsfremote/internal/state"
)

const (
	defaultPollTick = 500 * time.Millisecond

	scrubStep = 5.0  // seconds per ←/→
	seekStep  = 10.0 // seconds per [ / ]
	levelStep = 0.05

	sliderIdle = 600 * time.Millisecond
	scrubIdle  = time.Second
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Session      *remote.Session
	Monitor      *connection.Monitor // optional; nil reads as connected
	Tray         *notify.Tray        // optional
	PollInterval time.Duration
	Address      string
	ThemeName    string
	Mouse        bool
	PrefsPath    string
	Logger       *slog.Logger
}

// Model is the root application state for Bubble Tea. It owns the session:
// every intent and every poll result is applied inside Update.
type Model struct {
	// Configuration
	ctx       context.Context
	session   *remote.Session
	monitor   *connection.Monitor
	tray      *notify.Tray
	logger    *slog.Logger
	address   string
	prefsPath string
	pollTick  time.Duration
	mouse     bool

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	// Load-file prompt
	prompt     textinput.Model
	showPrompt bool

	// Playlist cursor; followFile is the current file the cursor last
	// jumped to.
	cursor     int
	followFile string

	// Keyboard drags are released after an idle period; a newer key press
	// bumps the sequence so older timers are ignored.
	releaseSeq map[state.Control]int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollInterval
	if pollTick <= 0 {
		pollTick = defaultPollTick
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	prompt := textinput.New()
	prompt.Prompt = "Open file: "
	prompt.Placeholder = "/path/on/player.wav"
	prompt.CharLimit = 1024

	m := Model{
		ctx:        ctx,
		session:    opts.Session,
		monitor:    opts.Monitor,
		tray:       opts.Tray,
		logger:     logger,
		address:    opts.Address,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		mouse:      opts.Mouse,
		theme:      GetTheme(themeName),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		prompt:     prompt,
		releaseSeq: make(map[state.Control]int),
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model. The first poll is sent immediately.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollCmd(m.ctx, m.session.Poll()),
		tickCmd(m.pollTick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = max(0, msg.Width-2) // footer padding
		m.prompt.Width = max(10, msg.Width-len(m.prompt.Prompt)-4)
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tea.Batch(
			pollCmd(m.ctx, m.session.Poll()),
			tickCmd(m.pollTick),
		)

	case pollResultMsg:
		items := m.session.ApplyPoll(remote.PollResult(msg))
		m.followCurrent()
		return m, itemsCmd(m.ctx, items)

	case itemsResultMsg:
		m.session.ApplyItems(remote.ItemsResult(msg))
		m.followCurrent()
		return m, nil

	case commandResultMsg:
		m.session.Complete(remote.Result(msg))
		return m, nil

	case releaseMsg:
		if m.releaseSeq[msg.control] != msg.seq {
			return m, nil
		}
		return m, m.send(m.session.EndDrag(msg.control))

	case trayChangedMsg, connectionMsg:
		return m, nil
	}

	if m.showPrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// send turns a prepared command into a tea.Cmd that runs it off the update
// loop.
func (m Model) send(c *remote.Command) tea.Cmd {
	return commandCmd(m.ctx, c)
}

// armRelease (re)starts the idle timer that ends a keyboard drag of c.
func (m Model) armRelease(c state.Control, after time.Duration) tea.Cmd {
	m.releaseSeq[c]++
	return releaseCmd(c, m.releaseSeq[c], after)
}

// cancelRelease invalidates a pending idle release of c.
func (m Model) cancelRelease(c state.Control) {
	m.releaseSeq[c]++
}

// followCurrent moves the cursor to the current file when it changes and
// keeps it inside the playlist.
func (m *Model) followCurrent() {
	pl := m.session.Playlist()
	file := m.session.State().CurrentFile
	if file != m.followFile {
		if i := pl.IndexOf(file); i >= 0 {
			m.cursor = i
			m.followFile = file
		}
	}
	m.clampCursor(len(pl.Items))
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) connected() bool {
	return m.monitor == nil || m.monitor.Connected()
}

func (m *Model) applyTheme() {
	t := m.theme
	bg := lipgloss.Color(t.Surface)
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)).Background(bg)
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)).Background(bg)
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)).Background(bg)
	m.help.Styles.Ellipsis = m.help.Styles.ShortSeparator
	m.prompt.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true)
	m.prompt.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	m.prompt.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
}

func (m Model) savePrefs() {
	err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Mouse: m.mouse})
	if err != nil {
		m.logger.Warn("save preferences failed", "error", err)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Session == nil {
		return errors.New("ui requires a session")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(New(opts), programOpts...)

	// Callbacks may fire inside Update (a command completion notifies the
	// tray), so Send must not run on the calling goroutine.
	if opts.Tray != nil {
		opts.Tray.OnChange(func() { go p.Send(trayChangedMsg{}) })
	}
	if opts.Monitor != nil {
		opts.Monitor.OnChange(func(bool) { go p.Send(connectionMsg{}) })
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
