package frame

import (
	"errors"
	"fmt"
	"image"
)

// Disposal enumerates how the canvas is altered after a frame's display
// duration elapses, before the next frame is drawn.
type Disposal int

const (
	// DisposalNone leaves the previous frame's pixels on the canvas.
	DisposalNone Disposal = iota
	// DisposalBackground clears the previous frame's placement rectangle
	// to transparent before the next frame is drawn.
	DisposalBackground
	// DisposalPrevious restores the whole canvas to its state from before
	// the previous frame was drawn.
	DisposalPrevious
)

func (d Disposal) String() string {
	switch d {
	case DisposalNone:
		return "none"
	case DisposalBackground:
		return "background"
	case DisposalPrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// Validation errors surfaced at the decode boundary. Inner components
// (compositor, cache) assume descriptors already passed these checks.
var (
	ErrNoFrames      = errors.New("frame: sequence contains no frames")
	ErrNilPatch      = errors.New("frame: descriptor has nil patch")
	ErrBadGeometry   = errors.New("frame: rectangle outside canvas bounds")
	ErrNegativeDelay = errors.New("frame: negative frame delay")
	ErrBadRange      = errors.New("frame: invalid trim range")
	ErrBadCrop       = errors.New("frame: invalid crop rectangle")
)

// Descriptor is one decoded animation frame: the partial patch pixels, the
// placement rectangle on the full canvas, the display duration and the
// disposal directive. Patch pixels use the stdlib premultiplied-alpha RGBA
// convention, matching image/draw source-over compositing.
//
// Descriptors are immutable once stored; callers must not write to Patch.
type Descriptor struct {
	Patch    *image.RGBA
	Rect     image.Rectangle
	DelayMs  int
	Disposal Disposal
}

func (d Descriptor) validate(canvas image.Rectangle) error {
	if d.Patch == nil {
		return ErrNilPatch
	}
	if d.Rect.Dx() < 1 || d.Rect.Dy() < 1 {
		return fmt.Errorf("%w: empty rect %v", ErrBadGeometry, d.Rect)
	}
	if !d.Rect.In(canvas) {
		return fmt.Errorf("%w: rect %v not inside %v", ErrBadGeometry, d.Rect, canvas)
	}
	if pb := d.Patch.Bounds(); pb.Dx() != d.Rect.Dx() || pb.Dy() != d.Rect.Dy() {
		return fmt.Errorf("%w: patch %v does not match rect %v", ErrBadGeometry, pb, d.Rect)
	}
	if d.DelayMs < 0 {
		return fmt.Errorf("%w: %dms", ErrNegativeDelay, d.DelayMs)
	}
	return nil
}

// TrimRange is an inclusive [Start, End] window over the frame sequence.
type TrimRange struct {
	Start int
	End   int
}

// FullRange returns the trim window covering all count frames.
func FullRange(count int) TrimRange { return TrimRange{Start: 0, End: count - 1} }

// Validate reports whether the range is well-formed for a sequence of
// count frames.
func (t TrimRange) Validate(count int) error {
	if t.Start < 0 || t.End < t.Start || t.End >= count {
		return fmt.Errorf("%w: [%d,%d] over %d frames", ErrBadRange, t.Start, t.End, count)
	}
	return nil
}

// Len returns the number of frames inside the window.
func (t TrimRange) Len() int { return t.End - t.Start + 1 }

// Contains reports whether index falls inside the window.
func (t TrimRange) Contains(index int) bool { return index >= t.Start && index <= t.End }

// ValidateCrop checks a crop rectangle against the canvas bounds. Crop is
// applied at export time only and never clamped silently.
func ValidateCrop(crop, canvas image.Rectangle) error {
	if crop.Dx() < 1 || crop.Dy() < 1 {
		return fmt.Errorf("%w: empty crop %v", ErrBadCrop, crop)
	}
	if !crop.In(canvas) {
		return fmt.Errorf("%w: crop %v not inside %v", ErrBadCrop, crop, canvas)
	}
	return nil
}
