package model

import (
	"sync"

	"github.com/soocke/anim-scrub-go/domain/frame"
)

// TimelineModel tracks the scrub position and trim window for the loaded
// asset. It is decoupled from the UI; presenters should poll Values() and
// update views. Mutex-guarded because frame sinks report positions from the
// playback goroutine while UI callbacks adjust the trim handles.
type TimelineModel struct {
	mu      sync.Mutex
	count   int
	current int
	trim    frame.TrimRange
	loops   int
}

// NewTimelineModel returns a model for a sequence of count frames with the
// trim window open across the whole sequence.
func NewTimelineModel(count int) *TimelineModel {
	if count < 1 {
		count = 1
	}
	return &TimelineModel{count: count, trim: frame.FullRange(count)}
}

// OnFrame records a presented frame index, counting wrap-arounds as loops.
func (m *TimelineModel) OnFrame(index int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= m.count {
		return
	}
	if index < m.current {
		m.loops++
	}
	m.current = index
}

// SetTrim installs a trim window after validating it against the sequence.
func (m *TimelineModel) SetTrim(t frame.TrimRange) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := t.Validate(m.count); err != nil {
		return err
	}
	m.trim = t
	if m.current < t.Start || m.current > t.End {
		m.current = t.Start
	}
	return nil
}

// Values returns the current position, the trim window and the number of
// completed loops.
func (m *TimelineModel) Values() (current int, trim frame.TrimRange, loops int) {
	if m == nil {
		return 0, frame.TrimRange{}, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.trim, m.loops
}
