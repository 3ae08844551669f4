package presenter

import (
	"image"
	"testing"
	"time"
)

type recordingView struct {
	indices []int
	images  []image.Image
}

func (v *recordingView) ShowFrame(index int, img image.Image) {
	v.indices = append(v.indices, index)
	v.images = append(v.images, img)
}

func canvas(n int) *image.RGBA { return image.NewRGBA(image.Rect(0, 0, n, n)) }

func TestFramePresenter_FlushesLatestOnly(t *testing.T) {
	view := &recordingView{}
	p := NewFramePresenter(view)

	// Three frames arrive between ticks; only the newest reaches the view.
	p.OnFrame(1, canvas(1))
	p.OnFrame(2, canvas(1))
	p.OnFrame(3, canvas(1))
	p.Tick(time.Now())

	if len(view.indices) != 1 || view.indices[0] != 3 {
		t.Fatalf("expected single flush of frame 3, got %v", view.indices)
	}
	if p.LastShown() != 3 {
		t.Fatalf("LastShown: %d", p.LastShown())
	}

	// Nothing pending: tick is a no-op.
	p.Tick(time.Now())
	if len(view.indices) != 1 {
		t.Fatalf("empty tick flushed: %v", view.indices)
	}
}

func TestFramePresenter_NilSafe(t *testing.T) {
	var p *FramePresenter
	p.OnFrame(0, nil)
	p.Tick(time.Now())
	if p.LastShown() != -1 {
		t.Fatalf("nil presenter LastShown: %d", p.LastShown())
	}
	NewFramePresenter(nil).Tick(time.Now())
}

func TestLoop_TicksSubPresentersAndSchedules(t *testing.T) {
	view := &recordingView{}
	fp := NewFramePresenter(view)
	scheduled := 0
	l := NewLoop(fp, func() { scheduled++ })

	fp.OnFrame(4, canvas(1))
	l.Tick()
	if len(view.indices) != 1 || view.indices[0] != 4 {
		t.Fatalf("loop did not drive frame presenter: %v", view.indices)
	}
	if scheduled != 1 {
		t.Fatalf("schedule callback not invoked")
	}

	var nilLoop *Loop
	nilLoop.Tick() // nil-safe
}
