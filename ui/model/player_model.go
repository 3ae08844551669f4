package model

import (
	"sync/atomic"
)

// PlayerModel tracks whether playback is enabled. The zero value is stopped
// and usable. Concurrency-safe via atomic Bool because UI callbacks and
// presenter ticks may race.
type PlayerModel struct{ playing atomic.Bool }

// Playing reports whether playback is currently enabled.
func (m *PlayerModel) Playing() bool {
	if m == nil {
		return false
	}
	return m.playing.Load()
}

// SetPlaying stores the playing flag.
func (m *PlayerModel) SetPlaying(b bool) {
	if m == nil {
		return
	}
	prev := m.playing.Load()
	if prev == b { // no change
		return
	}
	m.playing.Store(b)
}
