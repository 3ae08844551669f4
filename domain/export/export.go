// Package export produces a cropped, trimmed full-frame sequence ready for
// an encoder. Each export runs a fresh compositing pass on its own canvas
// and never touches the interactive seek cache, so it can run concurrently
// with playback.
package export

import (
	"image"
	"image/draw"
	"log/slog"

	"github.com/soocke/anim-scrub-go/domain/compose"
	"github.com/soocke/anim-scrub-go/domain/frame"
)

// Frame is one fully composited output frame. Delays are carried verbatim
// from the source descriptors; the playback minimum-delay floor is not
// applied at export.
type Frame struct {
	Image   *image.RGBA
	DelayMs int
}

// Export composites frames trim.Start through trim.End of store onto a
// transient canvas, extracting crop (when non-nil) from each result.
// Disposal is interpreted relative to the exported slice only: the first
// exported frame has no predecessor even if it had one in the original
// sequence. The trim range and crop rectangle are validated on entry.
func Export(store *frame.Store, trim frame.TrimRange, crop *image.Rectangle, logger *slog.Logger) ([]Frame, error) {
	if err := trim.Validate(store.Len()); err != nil {
		return nil, err
	}
	if crop != nil {
		if err := frame.ValidateCrop(*crop, store.Bounds()); err != nil {
			return nil, err
		}
	}

	comp := compose.NewCompositor(store, logger)
	canvas := compose.AcquireCanvas(store.Bounds())
	defer compose.RecycleCanvas(canvas)
	var saved *image.RGBA
	defer func() { compose.RecycleCanvas(saved) }()

	out := make([]Frame, 0, trim.Len())
	for i := trim.Start; i <= trim.End; i++ {
		var prev *frame.Descriptor
		if i > trim.Start {
			p := store.At(i - 1)
			prev = &p
		}
		saved = comp.Step(canvas, prev, store.At(i), saved)
		out = append(out, Frame{Image: emit(canvas, crop), DelayMs: store.At(i).DelayMs})
	}
	if logger != nil {
		logger.Info("export.done", "frames", len(out), "start", trim.Start, "end", trim.End, "cropped", crop != nil)
	}
	return out, nil
}

// emit copies the full canvas, or just the crop sub-rectangle, into a fresh
// buffer the caller owns. The copy never reads outside the canvas.
func emit(canvas *image.RGBA, crop *image.Rectangle) *image.RGBA {
	if crop == nil {
		dst := image.NewRGBA(canvas.Rect)
		copy(dst.Pix, canvas.Pix)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(dst, dst.Bounds(), canvas, crop.Min, draw.Src)
	return dst
}
