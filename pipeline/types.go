package pipeline

import (
	"errors"
	"image"
)

var (
	ErrNoFrame      = errors.New("no frame ready")
	ErrSourceClosed = errors.New("video source closed")
)

// Source is the video side of the render loop.
type Source interface {
	// Ready reports, without blocking, whether a new frame can be taken.
	Ready() bool
	// Frame takes the current frame. ErrSourceClosed ends the loop; any
	// other error only skips the tick.
	Frame() (image.Image, error)
}

// Closer is implemented by sources that can tell the render loop that no
// more frames will ever arrive.
type Closer interface {
	Closed() bool
}

// Sink receives each composited surface. The image is reused by the next
// tick, so sinks copy what they keep.
type Sink interface {
	Present(surface *image.RGBA) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(surface *image.RGBA) error

func (f SinkFunc) Present(surface *image.RGBA) error { return f(surface) }

type Stats struct {
	Rendered   uint64
	Skipped    uint64
	SinkErrors uint64
}
