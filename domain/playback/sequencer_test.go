package playback

import (
	"image"
	"image/color"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/soocke/anim-scrub-go/config"
	"github.com/soocke/anim-scrub-go/domain/frame"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakeCache records requested indices and returns fresh 1x1 canvases.
type fakeCache struct {
	mu      sync.Mutex
	indices []int
}

func (f *fakeCache) EnsureFrame(index int) (*image.RGBA, error) {
	f.mu.Lock()
	f.indices = append(f.indices, index)
	f.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (f *fakeCache) seen() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.indices))
	copy(out, f.indices)
	return out
}

func testStore(t *testing.T, n int) *frame.Store {
	t.Helper()
	frames := make([]frame.Descriptor, 0, n)
	for i := 0; i < n; i++ {
		p := image.NewRGBA(image.Rect(0, 0, 1, 1))
		p.SetRGBA(0, 0, color.RGBA{R: uint8(i), A: 255})
		frames = append(frames, frame.Descriptor{Patch: p, Rect: image.Rect(0, 0, 1, 1)})
	}
	s, err := frame.NewStore(1, 1, frames)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return s
}

func testConfig() *config.Config {
	return &config.Config{MinFrameDelayMs: 20, CatchUpFactor: 5, CheckpointInterval: 10, PinnedSnapshotCap: 4}
}

func newTestSequencer(t *testing.T, n int) (*Sequencer, *fakeCache) {
	t.Helper()
	cache := &fakeCache{}
	seq := NewSequencer(testStore(t, n), cache, testConfig(), discardLogger)
	t.Cleanup(seq.Close)
	return seq, cache
}

// waitFor polls cond up to timeout.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout: %s", msg)
}

func TestSequencer_PlayAdvancesAndWraps(t *testing.T) {
	seq, cache := newTestSequencer(t, 3)
	seq.Play()
	waitFor(t, time.Second, func() bool { return seq.State() == StatePlaying }, "playing state")
	// Zero delays clamp to the 20ms floor; a few frame intervals are
	// enough to see the position wrap back into the trim window.
	waitFor(t, 2*time.Second, func() bool { return len(cache.seen()) >= 5 }, "frames advancing")
	seq.Pause()
	waitFor(t, time.Second, func() bool { return seq.State() == StateStopped }, "stopped state")

	for _, index := range cache.seen() {
		if index < 0 || index > 2 {
			t.Fatalf("index %d outside sequence", index)
		}
	}
	// Advancement is strictly +1 with wrap to the window start.
	seen := cache.seen()
	for i := 1; i < len(seen); i++ {
		next := seen[i-1] + 1
		if next > 2 {
			next = 0
		}
		if seen[i] != next {
			t.Fatalf("non-sequential advance %d -> %d", seen[i-1], seen[i])
		}
	}
}

func TestSequencer_LoopsInsideTrimWindow(t *testing.T) {
	seq, cache := newTestSequencer(t, 6)
	if err := seq.SetTrim(frame.TrimRange{Start: 2, End: 4}); err != nil {
		t.Fatalf("SetTrim: %v", err)
	}
	seq.Play()
	waitFor(t, 2*time.Second, func() bool { return len(cache.seen()) >= 6 }, "frames advancing")
	seq.Pause()
	for _, index := range cache.seen() {
		if index < 2 || index > 4 {
			t.Fatalf("index %d escaped trim window [2,4]", index)
		}
	}
}

func TestSequencer_SetTrimValidatesOnEntry(t *testing.T) {
	seq, _ := newTestSequencer(t, 4)
	if err := seq.SetTrim(frame.TrimRange{Start: 3, End: 1}); err == nil {
		t.Fatalf("reversed trim accepted")
	}
	if err := seq.SetTrim(frame.TrimRange{Start: 0, End: 4}); err == nil {
		t.Fatalf("out-of-range trim accepted")
	}
}

func TestSequencer_SeekLatestWins(t *testing.T) {
	seq, cache := newTestSequencer(t, 10)
	// Requests issued back to back share the single mailbox slot; the
	// last one must always execute, earlier ones may be dropped.
	for i := 0; i <= 7; i++ {
		if err := seq.Seek(i); err != nil {
			t.Fatalf("Seek(%d): %v", i, err)
		}
	}
	waitFor(t, time.Second, func() bool { return seq.CurrentIndex() == 7 }, "latest seek executed")
	if got := len(cache.seen()); got > 8 {
		t.Fatalf("more composites than seek requests: %d", got)
	}
	st := seq.Stats()
	if st.Seeks != 8 {
		t.Fatalf("expected 8 recorded seeks, got %d", st.Seeks)
	}
}

func TestSequencer_SeekRejectsOutOfRange(t *testing.T) {
	seq, _ := newTestSequencer(t, 4)
	if err := seq.Seek(-1); err == nil {
		t.Fatalf("negative seek accepted")
	}
	if err := seq.Seek(4); err == nil {
		t.Fatalf("out-of-range seek accepted")
	}
}

func TestSequencer_SinksReceiveFrames(t *testing.T) {
	seq, _ := newTestSequencer(t, 4)
	var mu sync.Mutex
	var got []int
	seq.AddSink(func(index int, canvas *image.RGBA) {
		if canvas == nil {
			t.Error("nil canvas delivered to sink")
		}
		mu.Lock()
		got = append(got, index)
		mu.Unlock()
	})
	var transitions []State
	seq.AddStateListener(func(prev, next State) {
		mu.Lock()
		transitions = append(transitions, next)
		mu.Unlock()
	})
	if err := seq.Seek(2); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, "sink delivery")
	mu.Lock()
	defer mu.Unlock()
	if got[len(got)-1] != 2 {
		t.Fatalf("sink saw %v, want trailing 2", got)
	}
}
