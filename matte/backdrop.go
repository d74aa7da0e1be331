package matte

import (
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
)

// Backdrop is the scene shown through keyed-out pixels when a flat,
// opaque frame is needed (recording, display without a compositor).
type Backdrop struct {
	src image.Image

	mu     sync.Mutex
	scaled *image.RGBA
}

// NewBackdrop stretches src over the surface. A nil src is opaque black.
func NewBackdrop(src image.Image) *Backdrop {
	return &Backdrop{src: src}
}

// Flatten draws the backdrop and then the premultiplied foreground over it.
func (b *Backdrop) Flatten(dst *image.RGBA, fg *image.RGBA) {
	r := dst.Bounds()
	draw.Draw(dst, r, b.surface(r.Dx(), r.Dy()), image.Point{}, draw.Src)
	draw.Draw(dst, r, fg, fg.Bounds().Min, draw.Over)
}

func (b *Backdrop) surface(w, h int) image.Image {
	if b.src == nil {
		return image.NewUniform(color.Black)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.scaled != nil && b.scaled.Rect.Dx() == w && b.scaled.Rect.Dy() == h {
		return b.scaled
	}
	b.scaled = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(b.scaled, b.scaled.Rect, b.src, b.src.Bounds(), draw.Src, nil)
	return b.scaled
}
