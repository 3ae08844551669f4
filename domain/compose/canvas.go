package compose

import (
	"image"
	"sync"
)

// Lightweight reusable canvas pool to reduce long-lived heap churn caused by
// repeated allocation of full-frame RGBA backing slices. Replay restarts,
// snapshot freezes and per-listener frozen copies all allocate canvas-sized
// buffers; for large animations the persistent retention of many distinct
// backing slices is the main memory-pressure risk, so superseded buffers are
// returned here deterministically instead of being left to GC timing.
//
// Usage: AcquireCanvas(rect) returns a transparent *image.RGBA whose Pix
// capacity is at least rect area * 4. When a buffer is superseded or an
// owning cache entry is evicted, call RecycleCanvas to allow reuse. If a
// consumer never recycles, behavior degrades gracefully to plain allocation.

var canvasPool sync.Pool // stores *image.RGBA

// AcquireCanvas returns a fully transparent RGBA canvas sized to rect. The
// returned Pix length exactly matches rect area * 4 and Stride is width*4.
func AcquireCanvas(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := canvasPool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		return &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	}
	img.Stride = w * 4
	img.Rect = rect
	img.Pix = img.Pix[:needed]
	// Pooled buffers carry stale pixels; the compositor relies on a
	// transparent starting state.
	clear(img.Pix)
	return img
}

// RecycleCanvas returns the canvas to the pool for potential reuse. The
// buffer must no longer be accessed by the caller after recycling.
func RecycleCanvas(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	canvasPool.Put(img)
}

// CloneCanvas returns a frozen copy of src backed by a pooled buffer. The
// copy never aliases src's pixels.
func CloneCanvas(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := AcquireCanvas(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// clearRect zeroes exactly the pixels of r inside img, leaving every other
// pixel untouched. r must lie within img's bounds.
func clearRect(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.PixOffset(r.Min.X, y)
		clear(img.Pix[row : row+r.Dx()*4])
	}
}
