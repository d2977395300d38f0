package remote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/lsfremote/internal/state"
)

// DefaultPollInterval is the snapshot period.
const DefaultPollInterval = 500 * time.Millisecond

// Intent changes the session and may return a command to send.
type Intent func(s *Session) *Command

// Loop owns a Session on a single goroutine. Intents and remote results are
// queued and applied in order; remote calls run on their own goroutines.
// The published state is readable from any goroutine through the Store.
type Loop struct {
	session  *Session
	store    *state.Store
	interval time.Duration
	logger   *slog.Logger

	intents chan Intent
	results chan func()
	done    chan struct{}
}

// NewLoop builds a loop around session that publishes to store.
func NewLoop(session *Session, store *state.Store, interval time.Duration, logger *slog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		session:  session,
		store:    store,
		interval: interval,
		logger:   logger,
		intents:  make(chan Intent, 16),
		results:  make(chan func(), 16),
		done:     make(chan struct{}),
	}
}

// ErrStopped is returned by Submit once the loop has exited.
var ErrStopped = errors.New("remote loop stopped")

// Submit queues an intent. It blocks until the loop accepts it, the loop
// exits, or ctx ends.
func (l *Loop) Submit(ctx context.Context, intent Intent) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.intents <- intent:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run polls immediately and then every interval until ctx is cancelled. It
// must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.poll(ctx)
		case intent := <-l.intents:
			if cmd := intent(l.session); cmd != nil {
				l.dispatch(ctx, cmd)
			}
			l.publish()
		case apply := <-l.results:
			apply()
		}
	}
}

func (l *Loop) poll(ctx context.Context) {
	cmd := l.session.Poll()
	if cmd == nil {
		l.logger.Debug("poll skipped, previous poll in flight")
		return
	}
	go func() {
		res := cmd.Run(ctx)
		l.deliver(ctx, func() { l.applyPoll(ctx, res) })
	}()
}

func (l *Loop) applyPoll(ctx context.Context, res PollResult) {
	items := l.session.ApplyPoll(res)
	if res.Err != nil {
		l.store.Update(nil, nil, res.Err)
		return
	}
	player := l.session.State()
	playlist := l.session.Playlist()
	l.store.Update(&player, &playlist, nil)

	if items != nil {
		go func() {
			ir := items.Run(ctx)
			l.deliver(ctx, func() {
				l.session.ApplyItems(ir)
				l.publish()
			})
		}()
	}
}

func (l *Loop) dispatch(ctx context.Context, cmd *Command) {
	go func() {
		res := cmd.Run(ctx)
		l.deliver(ctx, func() { l.session.Complete(res) })
	}()
}

func (l *Loop) deliver(ctx context.Context, fn func()) {
	select {
	case l.results <- fn:
	case <-ctx.Done():
	}
}

func (l *Loop) publish() {
	l.store.Set(l.session.State(), l.session.Playlist())
}
