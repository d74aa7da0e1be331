package matte

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Sampler is a read-only 2D texture addressed by normalized coordinates.
type Sampler interface {
	Sample(u, v float32) ColorRGBA
	Size() (w, h int)
}

// Texture is the per-tick copy of a decoded frame. Sampling is bilinear
// with clamp-to-edge addressing; u grows right, v grows down from row 0.
type Texture struct {
	img *image.NRGBA
}

// NewTexture uploads a copy of img.
func NewTexture(img image.Image) *Texture {
	t := &Texture{}
	t.Upload(img)
	return t
}

// Upload replaces the texture content with img, reusing the pixel buffer
// when the size is unchanged.
func (t *Texture) Upload(img image.Image) {
	b := img.Bounds()
	if t.img == nil || t.img.Rect.Dx() != b.Dx() || t.img.Rect.Dy() != b.Dy() {
		t.img = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(t.img, t.img.Rect, img, b.Min, draw.Src)
}

func (t *Texture) Size() (w, h int) {
	if t.img == nil {
		return 0, 0
	}
	return t.img.Rect.Dx(), t.img.Rect.Dy()
}

// TexelSize is the normalized distance between neighbouring texels.
func (t *Texture) TexelSize() (du, dv float32) {
	w, h := t.Size()
	if w == 0 || h == 0 {
		return 0, 0
	}
	return 1 / float32(w), 1 / float32(h)
}

func (t *Texture) Sample(u, v float32) ColorRGBA {
	w, h := t.Size()
	if w == 0 || h == 0 {
		return ColorRGBA{}
	}

	x := u*float32(w) - 0.5
	y := v*float32(h) - 0.5
	fx := float32(math.Floor(float64(x)))
	fy := float32(math.Floor(float64(y)))
	ax, ay := x-fx, y-fy
	x0, y0 := int(fx), int(fy)

	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)

	return lerp(lerp(c00, c10, ax), lerp(c01, c11, ax), ay)
}

func (t *Texture) texel(x, y int) ColorRGBA {
	x = clampInt(x, 0, t.img.Rect.Dx()-1)
	y = clampInt(y, 0, t.img.Rect.Dy()-1)
	i := y*t.img.Stride + x*4
	p := t.img.Pix[i : i+4 : i+4]
	return ColorRGBA{
		R: float32(p[0]) / 255,
		G: float32(p[1]) / 255,
		B: float32(p[2]) / 255,
		A: float32(p[3]) / 255,
	}
}

func lerp(a, b ColorRGBA, t float32) ColorRGBA {
	if t == 0 {
		return a
	}
	return ColorRGBA{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
