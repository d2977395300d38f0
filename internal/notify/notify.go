// Package notify holds user-facing notifications and their lifetimes.
//
// Only success and error notifications are shown; info messages go to the
// debug log. Each visible notification owns its own hide timer, so
// dismissing one never disturbs another.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Visible reports whether notifications of this kind reach the user.
func (k Kind) Visible() bool {
	return k == KindSuccess || k == KindError
}

// Notifier accepts notifications from the engine.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Notification is one entry in the tray.
type Notification struct {
	ID        uuid.UUID
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 5 * time.Second

// maxVisible caps the tray; the oldest entry is dropped first.
const maxVisible = 5

type entry struct {
	Notification
	timer *time.Timer
}

// Tray is a goroutine-safe list of visible notifications.
type Tray struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
	entries  []*entry
	onChange func()
	closed   bool
}

// NewTray returns a tray whose entries hide after ttl. A zero ttl keeps
// entries until dismissed.
func NewTray(ttl time.Duration, logger *slog.Logger) *Tray {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tray{ttl: ttl, now: time.Now, logger: logger}
}

// OnChange registers fn to run after the visible set changes. fn runs without
// the tray lock held and may be called from a timer goroutine.
func (t *Tray) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Notify implements Notifier.
func (t *Tray) Notify(kind Kind, message string) {
	t.Push(kind, message)
}

// Push records a notification and returns it. Info notifications are logged
// and dropped; the returned ID is then uuid.Nil.
func (t *Tray) Push(kind Kind, message string) Notification {
	if !kind.Visible() {
		t.logger.Debug("status", "message", message)
		return Notification{Kind: kind, Message: message}
	}

	n := Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		CreatedAt: t.now(),
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return n
	}
	e := &entry{Notification: n}
	if t.ttl > 0 {
		id := n.ID
		e.timer = time.AfterFunc(t.ttl, func() { t.Dismiss(id) })
	}
	t.entries = append(t.entries, e)
	for len(t.entries) > maxVisible {
		stop(t.entries[0])
		t.entries = t.entries[1:]
	}
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
	return n
}

// Dismiss removes the notification with id, cancelling its timer. It reports
// whether the notification was still visible.
func (t *Tray) Dismiss(id uuid.UUID) bool {
	t.mu.Lock()
	idx := -1
	for i, e := range t.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return false
	}
	stop(t.entries[idx])
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// DismissAll clears the tray.
func (t *Tray) DismissAll() {
	t.mu.Lock()
	if len(t.entries) == 0 {
		t.mu.Unlock()
		return
	}
	for _, e := range t.entries {
		stop(e)
	}
	t.entries = nil
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Visible returns the current notifications, oldest first.
func (t *Tray) Visible() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return nil
	}
	out := make([]Notification, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Notification
	}
	return out
}

// Close cancels every pending timer. Later pushes are ignored.
func (t *Tray) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		stop(e)
	}
	t.entries = nil
	t.closed = true
}

func stop(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
	}
}

// Func adapts a plain function to Notifier.
type Func func(kind Kind, message string)

// Notify implements Notifier.
func (f Func) Notify(kind Kind, message string) {
	f(kind, message)
}

// Discard drops every notification.
var Discard Notifier = Func(func(Kind, string) {})
