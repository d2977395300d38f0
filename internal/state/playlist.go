package state

import "slices"

// Playlist is the local playlist model. Items are fetched only when a
// playlist first appears.
type Playlist struct {
	HasPlaylist bool
	Items       []string
	IsFinished  bool
}

// Clone returns a copy that shares no memory with p.
func (p Playlist) Clone() Playlist {
	p.Items = slices.Clone(p.Items)
	return p
}

// IndexOf returns the position of name in the playlist, or -1.
func (p Playlist) IndexOf(name string) int {
	return indexOf(name, p.Items)
}

// PreviousIndex returns the index before current. ok is false when current
// is not in items or is the first entry.
func PreviousIndex(current string, items []string) (int, bool) {
	i := indexOf(current, items)
	if i <= 0 {
		return 0, false
	}
	return i - 1, true
}

// NextIndex returns the index after current. ok is false when current is not
// in items or is the last entry.
func NextIndex(current string, items []string) (int, bool) {
	i := indexOf(current, items)
	if i < 0 || i >= len(items)-1 {
		return 0, false
	}
	return i + 1, true
}

func indexOf(name string, items []string) int {
	if name == "" {
		return -1
	}
	for i, item := range items {
		if item == name {
			return i
		}
	}
	return -1
}
