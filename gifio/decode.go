// Package gifio adapts the stdlib GIF codec to the frame-store and
// exporter boundaries. It is the reference decoder/encoder collaborator;
// the core packages depend only on the boundary types, never on GIF.
package gifio

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"

	"github.com/soocke/anim-scrub-go/domain/frame"
)

// Decode reads an animated GIF and builds a validated frame store from it.
// GIF disposal methods map directly onto the store's disposal directives;
// an unspecified method behaves as "none". Delay units convert from
// hundredths of a second to milliseconds. A zero-frame or malformed asset
// is rejected outright and no store is created.
func Decode(r io.Reader) (*frame.Store, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("gifio: decode: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, frame.ErrNoFrames
	}
	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		// Some encoders omit the logical screen size; fall back to the
		// first frame's extent.
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	frames := make([]frame.Descriptor, 0, len(g.Image))
	for i, src := range g.Image {
		rect := src.Bounds()
		patch := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		draw.Draw(patch, patch.Bounds(), src, rect.Min, draw.Src)
		frames = append(frames, frame.Descriptor{
			Patch:    patch,
			Rect:     rect,
			DelayMs:  delayMs(g.Delay, i),
			Disposal: disposal(g.Disposal, i),
		})
	}
	return frame.NewStore(width, height, frames)
}

func delayMs(delays []int, i int) int {
	if i >= len(delays) || delays[i] < 0 {
		return 0
	}
	return delays[i] * 10
}

func disposal(methods []byte, i int) frame.Disposal {
	if i >= len(methods) {
		return frame.DisposalNone
	}
	switch methods[i] {
	case gif.DisposalBackground:
		return frame.DisposalBackground
	case gif.DisposalPrevious:
		return frame.DisposalPrevious
	default:
		return frame.DisposalNone
	}
}
