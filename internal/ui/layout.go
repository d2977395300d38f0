package ui

import (
	"math"

	"github.com/five82/lsfremote/internal/state"
)

// Screen rows. The layout is fixed so mouse hits can be resolved without
// re-rendering.
const (
	headerRow     = 0
	notifyRow     = 1
	fileRow       = 2
	progressRow   = 4
	transportRow  = 5
	volumeRow     = 7
	brightnessRow = 8
	playlistRow   = 10
	firstItemRow  = 11
)

const (
	barIndent        = 2
	timeColumnWidth  = 16 // "  12:34 / 56:07 "
	sliderLabelWidth = 12
	levelColumnWidth = 6 // " 100% "
	minBarWidth      = 10
)

// span is a horizontal bar on one row.
type span struct {
	x     int
	width int
}

func (s span) contains(x int) bool {
	return x >= s.x && x < s.x+s.width
}

// fraction maps a column to [0,1] along the bar.
func (s span) fraction(x int) float64 {
	if s.width <= 1 {
		return 0
	}
	return state.Clamp01(float64(x-s.x) / float64(s.width-1))
}

// handle is the column of the fill edge for fraction f.
func (s span) handle(f float64) int {
	return s.x + int(math.Round(state.Clamp01(f)*float64(s.width-1)))
}

type layout struct {
	progress   span
	volume     span
	brightness span
	listRows   int
}

func newLayout(width, height int) layout {
	sliderX := barIndent + sliderLabelWidth
	slider := span{x: sliderX, width: max(minBarWidth, width-sliderX-levelColumnWidth)}
	return layout{
		progress:   span{x: barIndent, width: max(minBarWidth, width-barIndent-timeColumnWidth)},
		volume:     slider,
		brightness: slider,
		listRows:   max(0, height-firstItemRow-1), // last row is the footer
	}
}

// listOffset scrolls the playlist so cursor stays visible, centered when
// the list is longer than the window.
func listOffset(cursor, n, rows int) int {
	if rows <= 0 || n <= rows {
		return 0
	}
	return min(max(0, cursor-rows/2), n-rows)
}

// itemAt resolves a click row to a playlist index.
func (l layout) itemAt(y, cursor, n int) (int, bool) {
	row := y - firstItemRow
	if row < 0 || row >= l.listRows {
		return 0, false
	}
	idx := listOffset(cursor, n, l.listRows) + row
	if idx >= n {
		return 0, false
	}
	return idx, true
}
