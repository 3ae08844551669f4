package compose

import (
	"image"
	"image/draw"
	"log/slog"
	"sync/atomic"

	"github.com/soocke/anim-scrub-go/domain/frame"
)

// Compositor reconstructs full-canvas frames from the partial,
// disposal-annotated patches in a frame store. It is a pure engine: given
// the same starting canvas and the same frame history it always produces
// pixel-identical output. Inputs are assumed store-validated, so every
// operation on valid indices is total.
type Compositor struct {
	store         *frame.Store
	logger        *slog.Logger
	restoreMisses atomic.Uint64
}

// NewCompositor constructs a compositor over the given store. The logger is
// used for restore-without-history diagnostics and may be nil.
func NewCompositor(store *frame.Store, logger *slog.Logger) *Compositor {
	return &Compositor{store: store, logger: logger}
}

// Step advances the canvas by one frame. The order is strict: the disposal
// of prev is applied first, then the canvas is captured into savedForRestore
// when cur itself carries DisposalPrevious, and only then is cur's patch
// drawn with source-over blending. Pass a nil prev for a frame with no
// predecessor (frame 0, or the first frame of an exported slice).
//
// The returned buffer is the savedForRestore state to carry into the next
// step; a superseded capture is recycled.
func (c *Compositor) Step(canvas *image.RGBA, prev *frame.Descriptor, cur frame.Descriptor, saved *image.RGBA) *image.RGBA {
	if prev != nil {
		c.dispose(canvas, *prev, saved)
	}
	if cur.Disposal == frame.DisposalPrevious {
		next := CloneCanvas(canvas)
		RecycleCanvas(saved)
		saved = next
	}
	draw.Draw(canvas, cur.Rect, cur.Patch, cur.Patch.Bounds().Min, draw.Over)
	return saved
}

// Replay applies frames [from, to] of the full sequence on top of canvas,
// honoring each predecessor's disposal relative to the absolute history.
// canvas must hold the state after frame from-1 (or be transparent when
// from is 0), and saved must be the matching savedForRestore state.
func (c *Compositor) Replay(canvas *image.RGBA, from, to int, saved *image.RGBA) *image.RGBA {
	for i := from; i <= to; i++ {
		var prev *frame.Descriptor
		if i > 0 {
			p := c.store.At(i - 1)
			prev = &p
		}
		saved = c.Step(canvas, prev, c.store.At(i), saved)
	}
	return saved
}

// dispose applies prev's disposal directive to the canvas before the next
// frame is drawn.
func (c *Compositor) dispose(canvas *image.RGBA, prev frame.Descriptor, saved *image.RGBA) {
	switch prev.Disposal {
	case frame.DisposalBackground:
		clearRect(canvas, prev.Rect)
	case frame.DisposalPrevious:
		if saved == nil {
			// No capture exists to restore from; recover as a no-op and
			// leave the canvas unchanged.
			c.restoreMisses.Add(1)
			if c.logger != nil {
				c.logger.Warn("compose.restore_without_history", "rect", prev.Rect.String())
			}
			return
		}
		copy(canvas.Pix, saved.Pix)
	}
}

// RestoreMisses reports how many DisposalPrevious directives had no saved
// buffer to restore from.
func (c *Compositor) RestoreMisses() uint64 { return c.restoreMisses.Load() }
