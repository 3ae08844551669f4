// Package seek provides snapshot-indexed random access into a composited
// frame sequence. Arbitrary-index requests replay only the minimal suffix
// of patches from the nearest prior checkpoint, bounding seek cost to the
// checkpoint interval instead of the absolute index.
package seek

import (
	"fmt"
	"image"
	"log/slog"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/soocke/anim-scrub-go/domain/compose"
	"github.com/soocke/anim-scrub-go/domain/frame"
)

// snapshot is the frozen canvas state after applying frame index, plus the
// savedForRestore buffer when that frame itself carries DisposalPrevious
// (replaying the following frame needs it).
type snapshot struct {
	index  int
	canvas *image.RGBA
	saved  *image.RGBA
}

func (s *snapshot) release() {
	compose.RecycleCanvas(s.canvas)
	compose.RecycleCanvas(s.saved)
	s.canvas, s.saved = nil, nil
}

// Stats summarises cache behaviour for instrumentation.
type Stats struct {
	Seeks            uint64
	ForwardSteps     uint64
	Restarts         uint64
	FramesComposited uint64
	Checkpoints      int
	Pinned           int
	LastComposited   int
}

// Cache owns the live compositing canvas and a sparse set of frozen
// full-canvas snapshots for one loaded asset. All buffers are owned
// exclusively by the cache; EnsureFrame hands out frozen copies only.
// Safe for concurrent use, though the single-flight gate in the playback
// layer normally serialises callers anyway.
type Cache struct {
	mu       sync.Mutex
	store    *frame.Store
	comp     *compose.Compositor
	logger   *slog.Logger
	interval int

	live  *image.RGBA
	saved *image.RGBA
	last  int // index of the live canvas state, -1 before first access

	indices     []int // sorted snapshot indices, checkpoints and pins
	checkpoints map[int]*snapshot
	pins        *lru.Cache[int, *snapshot]

	seeks      uint64
	forward    uint64
	restarts   uint64
	composited uint64
}

// NewCache builds a cache over store with checkpoint interval K and a
// bounded budget for explicitly pinned snapshots. interval and pinCap are
// clamped to sane minimums.
func NewCache(store *frame.Store, logger *slog.Logger, interval, pinCap int) *Cache {
	if interval < 1 {
		interval = 10
	}
	if pinCap < 1 {
		pinCap = 16
	}
	c := &Cache{
		store:       store,
		comp:        compose.NewCompositor(store, logger),
		logger:      logger,
		interval:    interval,
		last:        -1,
		checkpoints: make(map[int]*snapshot),
	}
	// Evictions run synchronously under c.mu from Add; release the buffers
	// and drop the index without re-locking.
	c.pins, _ = lru.NewWithEvict(pinCap, func(index int, s *snapshot) {
		c.removeIndex(index)
		s.release()
	})
	return c
}

// Compositor exposes the cache's compositor for diagnostics.
func (c *Cache) Compositor() *compose.Compositor { return c.comp }

// EnsureFrame returns a frozen copy of the canvas state immediately after
// applying frame target. The caller owns the returned buffer and may hand
// it to compose.RecycleCanvas when done. Stored snapshots are never mutated
// by a failed request.
func (c *Cache) EnsureFrame(target int) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensure(target); err != nil {
		return nil, err
	}
	return compose.CloneCanvas(c.live), nil
}

func (c *Cache) ensure(target int) error {
	if target < 0 || target >= c.store.Len() {
		return fmt.Errorf("%w: index %d of %d", frame.ErrBadRange, target, c.store.Len())
	}
	c.seeks++

	if c.last >= 0 && target >= c.last {
		// Forward continuation on the existing live canvas; the common
		// case for monotonic playback and forward scrubbing.
		if target > c.last {
			c.saved = c.comp.Replay(c.live, c.last+1, target, c.saved)
			c.forward += uint64(target - c.last)
			c.composited += uint64(target - c.last)
		}
	} else {
		start := 0
		var live, saved *image.RGBA
		if snap := c.nearest(target); snap != nil {
			live = compose.CloneCanvas(snap.canvas)
			saved = compose.CloneCanvas(snap.saved)
			start = snap.index + 1
		} else {
			live = compose.AcquireCanvas(c.store.Bounds())
		}
		compose.RecycleCanvas(c.live)
		compose.RecycleCanvas(c.saved)
		c.live, c.saved = live, saved
		if start <= target {
			c.saved = c.comp.Replay(c.live, start, target, c.saved)
			c.composited += uint64(target - start + 1)
		}
		c.restarts++
		if c.logger != nil {
			c.logger.Debug("seek.restart",
				"asset", c.store.ID().String(), "start", start, "target", target)
		}
	}
	c.last = target

	if target%c.interval == 0 {
		if _, ok := c.checkpoints[target]; !ok {
			c.checkpoints[target] = c.freeze(target)
			c.insertIndex(target)
		}
	}
	return nil
}

// Pin composites frame index if needed and retains a dedicated snapshot for
// it, subject to the pin budget (least recently used pins are released).
func (c *Cache) Pin(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensure(index); err != nil {
		return err
	}
	if _, ok := c.checkpoints[index]; ok {
		return nil
	}
	if c.pins.Contains(index) {
		return nil
	}
	c.pins.Add(index, c.freeze(index))
	c.insertIndex(index)
	return nil
}

// freeze copies the live state into a new snapshot. The savedForRestore
// buffer is only retained when the snapshot frame itself needs it.
func (c *Cache) freeze(index int) *snapshot {
	s := &snapshot{index: index, canvas: compose.CloneCanvas(c.live)}
	if c.store.At(index).Disposal == frame.DisposalPrevious {
		s.saved = compose.CloneCanvas(c.saved)
	}
	return s
}

// nearest returns the stored snapshot with the greatest index <= target,
// or nil when none exists. Lookup is logarithmic over the sorted index.
func (c *Cache) nearest(target int) *snapshot {
	i := sort.SearchInts(c.indices, target+1) - 1
	if i < 0 {
		return nil
	}
	index := c.indices[i]
	if s, ok := c.checkpoints[index]; ok {
		return s
	}
	if s, ok := c.pins.Get(index); ok {
		return s
	}
	return nil
}

func (c *Cache) insertIndex(index int) {
	i := sort.SearchInts(c.indices, index)
	if i < len(c.indices) && c.indices[i] == index {
		return
	}
	c.indices = append(c.indices, 0)
	copy(c.indices[i+1:], c.indices[i:])
	c.indices[i] = index
}

func (c *Cache) removeIndex(index int) {
	i := sort.SearchInts(c.indices, index)
	if i < len(c.indices) && c.indices[i] == index {
		c.indices = append(c.indices[:i], c.indices[i+1:]...)
	}
}

// Stats returns a point-in-time summary of cache activity.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Seeks:            c.seeks,
		ForwardSteps:     c.forward,
		Restarts:         c.restarts,
		FramesComposited: c.composited,
		Checkpoints:      len(c.checkpoints),
		Pinned:           c.pins.Len(),
		LastComposited:   c.last,
	}
}

// Release recycles the live canvas and every stored snapshot. Call when the
// asset is replaced; the cache must never outlive its frame store.
func (c *Cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	compose.RecycleCanvas(c.live)
	compose.RecycleCanvas(c.saved)
	c.live, c.saved = nil, nil
	c.last = -1
	for index, s := range c.checkpoints {
		s.release()
		delete(c.checkpoints, index)
	}
	c.pins.Purge() // evict callback releases pinned buffers
	c.indices = c.indices[:0]
	if c.logger != nil {
		c.logger.Debug("seek.released", "asset", c.store.ID().String())
	}
}
