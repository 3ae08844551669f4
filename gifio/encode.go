package gifio

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/soocke/anim-scrub-go/domain/export"
)

// Encode writes the composited frames as an animated GIF. Every input
// frame is a full canvas, so no disposal directives are emitted; delays
// round down to the format's hundredth-of-a-second units, preserving zero
// delays verbatim. loopCount follows image/gif semantics (0 loops forever).
func Encode(w io.Writer, frames []export.Frame, loopCount int) error {
	if len(frames) == 0 {
		return fmt.Errorf("gifio: encode: no frames")
	}
	out := &gif.GIF{LoopCount: loopCount}
	for _, f := range frames {
		out.Image = append(out.Image, palettize(f.Image))
		out.Delay = append(out.Delay, f.DelayMs/10)
		out.Disposal = append(out.Disposal, gif.DisposalNone)
	}
	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("gifio: encode: %w", err)
	}
	return nil
}

// palettize quantizes a full-canvas frame onto the Plan 9 palette with
// error diffusion.
func palettize(src *image.RGBA) *image.Paletted {
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, src.Bounds(), src, src.Bounds().Min)
	return dst
}
