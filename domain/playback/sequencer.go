// Package playback drives time-based playback over a composited frame
// sequence: frame timing, looping within a trim window, and coalesced
// manual seeks routed through a single composite worker.
package playback

import (
	"fmt"
	"image"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/soocke/anim-scrub-go/config"
	"github.com/soocke/anim-scrub-go/domain/compose"
	"github.com/soocke/anim-scrub-go/domain/frame"
)

// schedulerTick is the granularity of the internal playback clock. Frame
// delays are multiples of milliseconds, so 10ms keeps drift negligible.
const schedulerTick = 10 * time.Millisecond

const statsLogInterval = 5 * time.Second

// State enumerates the transport states.
type State int

const (
	StateStopped State = iota
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// SeekCache is the slice of the snapshot cache the sequencer needs.
type SeekCache interface {
	EnsureFrame(index int) (*image.RGBA, error)
}

// FrameSink receives each presented frame. The canvas is a frozen copy
// owned by the sequencer; sinks must not mutate it and must not retain it
// past the callback (clone if needed), as it is recycled after fan-out.
type FrameSink func(index int, canvas *image.RGBA)

// StateListener is called on each transport state transition.
type StateListener func(prev, next State)

// Stats summarises sequencer activity for instrumentation.
type Stats struct {
	Ticks          uint64
	FramesShown    uint64
	Seeks          uint64
	SeeksCoalesced uint64
	State          State
	Current        int
}

// Sequencer owns the playback loop for one loaded asset. All compositing
// it triggers runs on a single goroutine: scheduler ticks and manual seeks
// share one gate, so at most one composite operation is ever in flight.
// Manual seeks go through a single-slot mailbox with latest-wins overwrite;
// a seek superseded before it starts processing is dropped without error.
type Sequencer struct {
	store  *frame.Store
	cache  SeekCache
	logger *slog.Logger

	minDelay   time.Duration
	catchUpCap int

	state   atomic.Int32
	current atomic.Int64

	// loop-owned
	trim      frame.TrimRange
	acc       time.Duration
	lastTick  time.Time
	lastStats time.Time
	sinks     []FrameSink
	stateSubs []StateListener

	pending atomic.Int64 // single-slot seek mailbox, -1 when empty
	kick    chan struct{}
	events  chan any
	closed  bool

	ticks     atomic.Uint64
	shown     atomic.Uint64
	seeks     atomic.Uint64
	coalesced atomic.Uint64
}

type (
	evtPlay       struct{}
	evtPause      struct{}
	evtSetTrim    struct{ t frame.TrimRange }
	evtAddSink    struct{ fn FrameSink }
	evtAddStateFn struct{ fn StateListener }
)

// NewSequencer constructs and starts the playback loop. The trim window
// starts at the full sequence; playback always loops inside it.
func NewSequencer(store *frame.Store, cache SeekCache, cfg *config.Config, logger *slog.Logger) *Sequencer {
	minDelay := 20 * time.Millisecond
	catchUp := 5
	if cfg != nil {
		if cfg.MinFrameDelayMs > 0 {
			minDelay = time.Duration(cfg.MinFrameDelayMs) * time.Millisecond
		}
		if cfg.CatchUpFactor > 0 {
			catchUp = cfg.CatchUpFactor
		}
	}
	s := &Sequencer{
		store:      store,
		cache:      cache,
		logger:     logger,
		minDelay:   minDelay,
		catchUpCap: catchUp,
		trim:       frame.FullRange(store.Len()),
		kick:       make(chan struct{}, 1),
		events:     make(chan any, 64),
	}
	s.pending.Store(-1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				if logger != nil {
					logger.Error("sequencer panic", "error", r, "stack", stack)
				}
			}
		}()
		s.loop()
	}()
	return s
}

func (s *Sequencer) loop() {
	ticker := time.NewTicker(schedulerTick)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return
			}
			s.handle(ev)
		case <-s.kick:
			s.drainSeek()
		case now := <-ticker.C:
			s.handleTick(now)
		}
	}
}

func (s *Sequencer) handle(ev any) {
	switch e := ev.(type) {
	case evtPlay:
		if s.State() == StateStopped {
			s.lastTick = time.Now()
			s.acc = 0
			s.transition(StatePlaying)
		}
	case evtPause:
		if s.State() == StatePlaying {
			s.transition(StateStopped)
		}
	case evtSetTrim:
		s.trim = e.t
		if !s.trim.Contains(int(s.current.Load())) {
			s.show(s.trim.Start)
			s.acc = 0
		}
	case evtAddSink:
		s.sinks = append(s.sinks, e.fn)
	case evtAddStateFn:
		s.stateSubs = append(s.stateSubs, e.fn)
	}
}

// drainSeek takes the most recently requested index out of the mailbox and
// composites it. Requests overwritten before this point were dropped.
func (s *Sequencer) drainSeek() {
	index := s.pending.Swap(-1)
	if index < 0 {
		return
	}
	s.show(int(index))
	s.acc = 0
}

func (s *Sequencer) handleTick(now time.Time) {
	s.ticks.Add(1)
	if s.lastStats.IsZero() {
		s.lastStats = now
	} else if now.Sub(s.lastStats) >= statsLogInterval {
		s.lastStats = now
		s.logStats()
	}
	if s.State() != StatePlaying {
		s.lastTick = now
		return
	}
	s.acc += now.Sub(s.lastTick)
	s.lastTick = now

	interval := s.effectiveDelay(int(s.current.Load()))
	// Clamp the carried remainder so a stall cannot trigger unbounded
	// catch-up advancement afterwards.
	if limit := time.Duration(s.catchUpCap) * interval; s.acc > limit {
		s.acc = limit
	}
	if s.acc < interval {
		return
	}
	next := int(s.current.Load()) + 1
	if next > s.trim.End || next < s.trim.Start {
		next = s.trim.Start
	}
	s.show(next)
	s.acc -= interval
}

// effectiveDelay is the playback duration of frame index with the
// minimum-delay floor applied. The floor is a playback concern only; stored
// descriptors and exports keep raw delays.
func (s *Sequencer) effectiveDelay(index int) time.Duration {
	d := time.Duration(s.store.At(index).DelayMs) * time.Millisecond
	if d < s.minDelay {
		return s.minDelay
	}
	return d
}

func (s *Sequencer) show(index int) {
	canvas, err := s.cache.EnsureFrame(index)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("playback.ensure", "index", index, "error", err)
		}
		return
	}
	s.current.Store(int64(index))
	s.shown.Add(1)
	for _, sink := range s.sinks {
		sink(index, canvas)
	}
	compose.RecycleCanvas(canvas)
}

func (s *Sequencer) transition(next State) {
	prev := s.State()
	if prev == next {
		return
	}
	s.state.Store(int32(next))
	if s.logger != nil {
		s.logger.Debug("playback state transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range s.stateSubs {
		l(prev, next)
	}
}

func (s *Sequencer) logStats() {
	if s.logger == nil {
		return
	}
	st := s.Stats()
	s.logger.Debug("playback.stats",
		"ticks", st.Ticks,
		"shown", st.FramesShown,
		"seeks", st.Seeks,
		"coalesced", st.SeeksCoalesced,
		"state", st.State.String(),
	)
}

// Play starts looping playback inside the trim window.
func (s *Sequencer) Play() { s.events <- evtPlay{} }

// Pause halts playback, keeping the current position.
func (s *Sequencer) Pause() { s.events <- evtPause{} }

// Seek requests an immediate composite of index, bypassing frame timing.
// Concurrent requests coalesce: only the most recent index is guaranteed
// to execute.
func (s *Sequencer) Seek(index int) error {
	if index < 0 || index >= s.store.Len() {
		return fmt.Errorf("%w: seek index %d of %d", frame.ErrBadRange, index, s.store.Len())
	}
	if prev := s.pending.Swap(int64(index)); prev >= 0 {
		s.coalesced.Add(1)
	}
	s.seeks.Add(1)
	select {
	case s.kick <- struct{}{}:
	default:
	}
	return nil
}

// SetTrim installs a new trim window. The range is validated on entry; when
// the current position falls outside the new window, playback jumps to its
// start.
func (s *Sequencer) SetTrim(t frame.TrimRange) error {
	if err := t.Validate(s.store.Len()); err != nil {
		return err
	}
	s.events <- evtSetTrim{t: t}
	return nil
}

// AddSink registers a frame listener. See FrameSink for ownership rules.
func (s *Sequencer) AddSink(fn FrameSink) { s.events <- evtAddSink{fn: fn} }

// AddStateListener registers a transport state listener.
func (s *Sequencer) AddStateListener(fn StateListener) { s.events <- evtAddStateFn{fn: fn} }

// State returns the current transport state.
func (s *Sequencer) State() State { return State(s.state.Load()) }

// CurrentIndex returns the most recently presented frame index.
func (s *Sequencer) CurrentIndex() int { return int(s.current.Load()) }

// Stats returns a point-in-time summary of sequencer activity.
func (s *Sequencer) Stats() Stats {
	return Stats{
		Ticks:          s.ticks.Load(),
		FramesShown:    s.shown.Load(),
		Seeks:          s.seeks.Load(),
		SeeksCoalesced: s.coalesced.Load(),
		State:          s.State(),
		Current:        s.CurrentIndex(),
	}
}

// Close stops the event loop. Idempotent is the caller's responsibility,
// matching the rest of the lifecycle API.
func (s *Sequencer) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}
