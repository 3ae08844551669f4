package presenter

import (
	"image"
	"sync"
	"time"
)

// FrameView displays a composited frame.
type FrameView interface{ ShowFrame(index int, img image.Image) }

// FramePresenter queues frames arriving from the playback goroutine and
// reflects only the most recent one on the next Tick, so a slow view never
// backs up the sequencer.
type FramePresenter struct {
	view FrameView

	mu      sync.Mutex
	index   int
	img     *image.RGBA
	pending bool
	shown   int // last reflected index
}

func NewFramePresenter(view FrameView) *FramePresenter {
	return &FramePresenter{view: view, shown: -1}
}

// OnFrame records a presented frame from the sequencer sink. The canvas is
// cloned by the caller before handing it here; the presenter takes
// ownership of img.
func (p *FramePresenter) OnFrame(index int, img *image.RGBA) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.index, p.img, p.pending = index, img, true
	p.mu.Unlock()
}

// Tick flushes the most recently queued frame to the view, if any.
func (p *FramePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if !p.pending {
		p.mu.Unlock()
		return
	}
	index, img := p.index, p.img
	p.img = nil
	p.pending = false
	p.mu.Unlock()
	p.shown = index
	p.view.ShowFrame(index, img)
}

// LastShown returns the index most recently flushed to the view, -1 before
// the first flush.
func (p *FramePresenter) LastShown() int {
	if p == nil {
		return -1
	}
	return p.shown
}
