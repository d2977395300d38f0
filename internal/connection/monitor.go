// Package connection tracks whether the player is reachable.
//
// A Monitor is fed the connectivity outcome of every transport call and keeps
// a binary connected flag. Each transition tries to notify the user, but a
// notification is suppressed when one of the same direction fired less than
// the debounce window ago. A reconnect also restarts the disconnect window,
// so a link that drops right after coming back stays quiet.
//
// Polling failures are logged at most once per PollErrorLogInterval; failures
// of user commands are logged every time.
package connection

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/five82/lsfremote/internal/notify"
)

const (
	DefaultDebounce             = 2 * time.Second
	DefaultPollErrorLogInterval = 10 * time.Second
)

// Messages shown on transitions.
const (
	MessageLost     = "Server connection lost"
	MessageRestored = "Server connection restored"
)

// Options configures a Monitor. Zero values select the defaults.
type Options struct {
	Debounce             time.Duration
	PollErrorLogInterval time.Duration
	Now                  func() time.Time
	Logger               *slog.Logger
	Notifier             notify.Notifier
}

// State is a copy of the monitor's bookkeeping.
type State struct {
	Connected                bool
	LastConnectedNotifyAt    time.Time
	LastDisconnectedNotifyAt time.Time
	LastPollErrorLogAt       time.Time
}

// Monitor implements lumasonic.Observer. It is safe for concurrent use.
type Monitor struct {
	mu       sync.Mutex
	state    State
	debounce time.Duration
	pollLog  *rate.Limiter
	now      func() time.Time
	logger   *slog.Logger
	notifier notify.Notifier
	onChange func(connected bool)
}

// New returns a Monitor that starts in the connected state.
func New(opts Options) *Monitor {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.PollErrorLogInterval <= 0 {
		opts.PollErrorLogInterval = DefaultPollErrorLogInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	return &Monitor{
		state:    State{Connected: true},
		debounce: opts.Debounce,
		pollLog:  rate.NewLimiter(rate.Every(opts.PollErrorLogInterval), 1),
		now:      opts.Now,
		logger:   opts.Logger,
		notifier: opts.Notifier,
	}
}

// OnChange registers fn to run after each connected/disconnected transition.
func (m *Monitor) OnChange(fn func(connected bool)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Observe records one transport outcome. err is nil for a connectivity
// success.
func (m *Monitor) Observe(err error, polling bool) {
	m.mu.Lock()
	now := m.now()

	var (
		message    string
		kind       notify.Kind
		transition bool
	)

	if err == nil {
		if !m.state.Connected {
			transition = true
			m.state.Connected = true
			m.logger.Info("player connection restored")
			if now.Sub(m.state.LastConnectedNotifyAt) >= m.debounce {
				message, kind = MessageRestored, notify.KindSuccess
				m.state.LastConnectedNotifyAt = now
			}
			m.state.LastDisconnectedNotifyAt = now
		}
	} else {
		if m.state.Connected {
			transition = true
			m.state.Connected = false
			m.logger.Info("player connection lost", "error", err)
			if now.Sub(m.state.LastDisconnectedNotifyAt) >= m.debounce {
				message, kind = MessageLost, notify.KindError
				m.state.LastDisconnectedNotifyAt = now
			}
		}
		if polling {
			if m.pollLog.AllowN(now, 1) {
				m.state.LastPollErrorLogAt = now
				m.logger.Warn("polling call failed", "error", err)
			}
		} else {
			m.logger.Error("call failed", "error", err)
		}
	}

	connected := m.state.Connected
	fn := m.onChange
	m.mu.Unlock()

	if message != "" {
		m.notifier.Notify(kind, message)
	}
	if transition && fn != nil {
		fn(connected)
	}
}

// Connected reports the current flag.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Connected
}

// State returns a copy of the monitor's bookkeeping.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
