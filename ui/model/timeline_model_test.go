package model

import (
	"testing"

	"github.com/soocke/anim-scrub-go/domain/frame"
)

func TestTimelineModel_TracksPositionAndLoops(t *testing.T) {
	m := NewTimelineModel(5)

	m.OnFrame(0)
	m.OnFrame(1)
	m.OnFrame(2)
	current, _, loops := m.Values()
	if current != 2 || loops != 0 {
		t.Fatalf("current=%d loops=%d", current, loops)
	}

	// Wrap back to the window start counts as a completed loop.
	m.OnFrame(0)
	m.OnFrame(1)
	m.OnFrame(0)
	current, _, loops = m.Values()
	if current != 0 || loops != 2 {
		t.Fatalf("after wraps: current=%d loops=%d", current, loops)
	}

	// Out-of-range reports are dropped.
	m.OnFrame(7)
	m.OnFrame(-1)
	current, _, _ = m.Values()
	if current != 0 {
		t.Fatalf("out-of-range index accepted: %d", current)
	}
}

func TestTimelineModel_SetTrim(t *testing.T) {
	m := NewTimelineModel(10)
	if err := m.SetTrim(frame.TrimRange{Start: 6, End: 2}); err == nil {
		t.Fatalf("reversed trim accepted")
	}
	if err := m.SetTrim(frame.TrimRange{Start: 4, End: 7}); err != nil {
		t.Fatalf("SetTrim: %v", err)
	}
	// Position outside the new window snaps to its start.
	current, trim, _ := m.Values()
	if current != 4 {
		t.Fatalf("position not snapped into window: %d", current)
	}
	if trim != (frame.TrimRange{Start: 4, End: 7}) {
		t.Fatalf("trim not installed: %v", trim)
	}
}

func TestPlayerModel_ZeroValueUsable(t *testing.T) {
	var m PlayerModel
	if m.Playing() {
		t.Fatalf("zero value should be stopped")
	}
	m.SetPlaying(true)
	if !m.Playing() {
		t.Fatalf("SetPlaying lost")
	}
	m.SetPlaying(true) // no-op path
	m.SetPlaying(false)
	if m.Playing() {
		t.Fatalf("SetPlaying(false) lost")
	}
}
