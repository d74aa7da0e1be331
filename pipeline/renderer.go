package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"golang_chromakey/geometry"
	"golang_chromakey/matte"
)

// Renderer is the render-loop driver. It owns the aspect state, the
// current texture and the surface buffer. Tick must not be called
// concurrently; Resize may be called from any goroutine.
type Renderer struct {
	aspect     *geometry.AspectState
	compositor *matte.Compositor
	source     Source
	sinks      []Sink

	texture *matte.Texture
	surface *image.RGBA

	rendered   atomic.Uint64
	skipped    atomic.Uint64
	sinkErrors atomic.Uint64
}

func NewRenderer(aspect *geometry.AspectState, compositor *matte.Compositor, source Source, sinks ...Sink) *Renderer {
	return &Renderer{
		aspect:     aspect,
		compositor: compositor,
		source:     source,
		sinks:      sinks,
	}
}

// Resize is the display-side resize event.
func (r *Renderer) Resize(surfaceW, surfaceH int) error {
	q, err := r.aspect.Resize(surfaceW, surfaceH)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Resize",
			"width":    surfaceW,
			"height":   surfaceH,
			"error":    err.Error(),
		}).Warn("Ignoring invalid surface size")
		return err
	}
	logrus.WithFields(logrus.Fields{
		"function": "Resize",
		"width":    surfaceW,
		"height":   surfaceH,
		"scale_x":  q.ScaleX,
		"scale_y":  q.ScaleY,
	}).Info("Surface resized")
	return nil
}

// Tick runs one render pass: take a new frame if one is ready, otherwise
// keep the previous texture, then composite the whole surface.
func (r *Renderer) Tick(ctx context.Context) error {
	if err := r.acquire(); err != nil {
		return err
	}
	if r.texture == nil {
		return nil
	}

	w, h := r.aspect.SurfaceSize()
	if r.surface == nil || r.surface.Rect.Dx() != w || r.surface.Rect.Dy() != h {
		r.surface = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	if err := r.compositor.Render(ctx, r.surface, r.texture, r.aspect.Quad()); err != nil {
		return fmt.Errorf("render surface: %w", err)
	}
	r.rendered.Inc()

	for _, sink := range r.sinks {
		if err := sink.Present(r.surface); err != nil {
			r.sinkErrors.Inc()
			logrus.WithFields(logrus.Fields{
				"function": "Tick",
				"error":    err.Error(),
			}).Warn("Sink failed to present frame")
		}
	}
	return nil
}

func (r *Renderer) acquire() error {
	if !r.source.Ready() {
		if c, ok := r.source.(Closer); ok && c.Closed() {
			return ErrSourceClosed
		}
		r.skipped.Inc()
		return nil
	}

	frame, err := r.source.Frame()
	switch {
	case errors.Is(err, ErrSourceClosed):
		return err
	case err != nil:
		r.skipped.Inc()
		logrus.WithFields(logrus.Fields{
			"function": "Tick",
			"error":    err.Error(),
		}).Debug("Frame unavailable, reusing previous texture")
		return nil
	}

	if r.texture == nil {
		r.texture = matte.NewTexture(frame)
	} else {
		r.texture.Upload(frame)
	}

	w, h := r.texture.Size()
	q, changed, err := r.aspect.SetVideoSize(w, h)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Tick",
			"width":    w,
			"height":   h,
			"error":    err.Error(),
		}).Warn("Ignoring invalid video size")
		return nil
	}
	if changed {
		logrus.WithFields(logrus.Fields{
			"function": "Tick",
			"width":    w,
			"height":   h,
			"scale_x":  q.ScaleX,
			"scale_y":  q.ScaleY,
		}).Info("Video native size known")
	}
	return nil
}

// Run ticks every interval until ctx is done or the source closes.
func (r *Renderer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := r.Tick(ctx)
			switch {
			case err == nil:
			case errors.Is(err, ErrSourceClosed):
				logrus.WithFields(logrus.Fields{
					"function": "Run",
					"rendered": r.rendered.Load(),
				}).Info("Video source finished")
				return err
			case ctx.Err() != nil:
				return ctx.Err()
			default:
				return err
			}
		}
	}
}

func (r *Renderer) Stats() Stats {
	return Stats{
		Rendered:   r.rendered.Load(),
		Skipped:    r.skipped.Load(),
		SinkErrors: r.sinkErrors.Load(),
	}
}
