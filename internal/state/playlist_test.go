package state

import "testing"

func TestNavigation(t *testing.T) {
	items := []string{"A", "B", "C"}

	cases := []struct {
		current string
		prev    int
		prevOK  bool
		next    int
		nextOK  bool
	}{
		{"B", 0, true, 2, true},
		{"A", 0, false, 1, true},
		{"C", 1, true, 0, false},
		{"Z", 0, false, 0, false},
		{"", 0, false, 0, false},
	}
	for _, tc := range cases {
		prev, ok := PreviousIndex(tc.current, items)
		if ok != tc.prevOK || (ok && prev != tc.prev) {
			t.Fatalf("PreviousIndex(%q) = %d,%v want %d,%v", tc.current, prev, ok, tc.prev, tc.prevOK)
		}
		next, ok := NextIndex(tc.current, items)
		if ok != tc.nextOK || (ok && next != tc.next) {
			t.Fatalf("NextIndex(%q) = %d,%v want %d,%v", tc.current, next, ok, tc.next, tc.nextOK)
		}
	}
}

func TestNavigation_SingleAndEmpty(t *testing.T) {
	if _, ok := NextIndex("A", []string{"A"}); ok {
		t.Fatalf("NextIndex on single item should be none")
	}
	if _, ok := PreviousIndex("A", nil); ok {
		t.Fatalf("PreviousIndex on empty list should be none")
	}
}

func TestTracker(t *testing.T) {
	var tr Tracker
	tr.Begin(ControlVolume)
	tr.Begin(ControlVolume)
	if !tr.Active(ControlVolume) || tr.Active(ControlProgress) {
		t.Fatalf("Active flags wrong: %#v", tr)
	}
	if !tr.End(ControlVolume) {
		t.Fatalf("End(volume) = false, want true")
	}
	if tr.End(ControlVolume) {
		t.Fatalf("second End(volume) = true, want false")
	}

	tr.Begin(ControlProgress)
	tr.Begin(ControlBrightness)
	ended := tr.ReleaseAll()
	if len(ended) != 2 || ended[0] != ControlProgress || ended[1] != ControlBrightness {
		t.Fatalf("ReleaseAll = %v, want [progress brightness]", ended)
	}
	if tr.AnyActive() {
		t.Fatalf("AnyActive = true after ReleaseAll")
	}
}

func TestPlayer_Helpers(t *testing.T) {
	p := Player{CurrentFile: "a", TotalTimeSec: 100, CurrentTimeSec: -5}
	if p.DisplayTime() != 0 {
		t.Fatalf("DisplayTime = %v, want 0", p.DisplayTime())
	}
	p.CurrentTimeSec = 25
	if p.Progress() != 0.25 {
		t.Fatalf("Progress = %v, want 0.25", p.Progress())
	}
	if !p.CanPlay() || p.CanPause() || !p.CanStop() {
		t.Fatalf("button state wrong for paused file")
	}
	if (Player{}).CanStop() {
		t.Fatalf("CanStop with no file")
	}
	if Clamp01(1.4) != 1 || Clamp01(-1) != 0 || Clamp01(0.5) != 0.5 {
		t.Fatalf("Clamp01 wrong")
	}
}
