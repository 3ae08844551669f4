package frame

import (
	"fmt"
	"image"

	"github.com/google/uuid"
)

// Store is the ordered, immutable sequence of frame descriptors for one
// loaded asset, plus the canvas dimensions. It is built once by the decode
// boundary and never mutated afterwards; downstream components (compositor,
// seek cache, exporter) hold it read-only. Each store carries a unique ID so
// caches referencing a stale asset can be spotted in logs.
type Store struct {
	id     uuid.UUID
	bounds image.Rectangle
	frames []Descriptor
}

// NewStore validates every descriptor against the canvas bounds and returns
// the assembled store. A zero-frame sequence or any malformed descriptor
// rejects the whole asset; no store is created.
func NewStore(width, height int, frames []Descriptor) (*Store, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrBadGeometry, width, height)
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	bounds := image.Rect(0, 0, width, height)
	for i, d := range frames {
		if err := d.validate(bounds); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	s := &Store{id: uuid.New(), bounds: bounds, frames: make([]Descriptor, len(frames))}
	copy(s.frames, frames)
	return s, nil
}

// ID identifies the loaded asset.
func (s *Store) ID() uuid.UUID { return s.id }

// Bounds returns the full-canvas rectangle, anchored at the origin.
func (s *Store) Bounds() image.Rectangle { return s.bounds }

// Len returns the number of frames in the sequence.
func (s *Store) Len() int { return len(s.frames) }

// At returns the descriptor at index. Index must be in [0, Len()).
func (s *Store) At(index int) Descriptor { return s.frames[index] }
