package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot represents the latest local state published to readers.
type Snapshot struct {
	Player              Player
	Playlist            Playlist
	HasState            bool // at least one poll succeeded
	Connected           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the player has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent reads of state produced by a single writer.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store holding the startup state.
func NewStore() *Store {
	return &Store{snapshot: Snapshot{Player: NewPlayer(), Connected: true}}
}

// Update records the outcome of a poll. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(player *Player, playlist *Playlist, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if player != nil {
		s.snapshot.Player = *player
		s.snapshot.HasState = true
	}
	if playlist != nil {
		s.snapshot.Playlist = playlist.Clone()
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Set replaces the local state after an optimistic change without touching
// the poll bookkeeping.
func (s *Store) Set(player Player, playlist Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Player = player
	s.snapshot.Playlist = playlist.Clone()
}

// SetConnected records the connection flag.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Connected = connected
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Playlist = s.snapshot.Playlist.Clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
