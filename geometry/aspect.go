package geometry

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// AspectState tracks the surface and native video sizes and publishes the
// matching Quad. Writers are serialised; readers load an immutable
// snapshot and never observe a half-updated quad.
type AspectState struct {
	mu             sync.Mutex
	surfaceW       int
	surfaceH       int
	videoW         int
	videoH         int
	videoSizeKnown bool

	quad atomic.Pointer[Quad]
}

// NewAspectState starts with a neutral 1:1 video until the real size is known.
func NewAspectState(surfaceW, surfaceH int) (*AspectState, error) {
	q, err := Fit(surfaceW, surfaceH, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("initial geometry: %w", err)
	}
	s := &AspectState{
		surfaceW: surfaceW,
		surfaceH: surfaceH,
		videoW:   1,
		videoH:   1,
	}
	s.quad.Store(&q)
	return s, nil
}

// Resize refits the quad for a new surface size. On error the previous
// size and quad are kept.
func (s *AspectState) Resize(surfaceW, surfaceH int) (Quad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := Fit(surfaceW, surfaceH, s.videoW, s.videoH)
	if err != nil {
		return *s.quad.Load(), err
	}
	s.surfaceW, s.surfaceH = surfaceW, surfaceH
	s.quad.Store(&q)
	return q, nil
}

// SetVideoSize records the native video size. changed reports whether the
// size differed from the previous one, so callers can refit lazily.
func (s *AspectState) SetVideoSize(videoW, videoH int) (q Quad, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.videoSizeKnown && videoW == s.videoW && videoH == s.videoH {
		return *s.quad.Load(), false, nil
	}
	q, err = Fit(s.surfaceW, s.surfaceH, videoW, videoH)
	if err != nil {
		return *s.quad.Load(), false, err
	}
	s.videoW, s.videoH = videoW, videoH
	s.videoSizeKnown = true
	s.quad.Store(&q)
	return q, true, nil
}

// Quad returns the current snapshot.
func (s *AspectState) Quad() Quad {
	return *s.quad.Load()
}

func (s *AspectState) SurfaceSize() (w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surfaceW, s.surfaceH
}

func (s *AspectState) VideoSize() (w, h int, known bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoW, s.videoH, s.videoSizeKnown
}
