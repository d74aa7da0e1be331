package matte

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid matte parameters")

// Params are fixed for the lifetime of a Compositor.
type Params struct {
	// Similarity is the chroma distance at or below which a pixel is keyed out.
	Similarity float32
	// Smoothness is the width of the ramp from transparent to opaque.
	Smoothness float32
	// BlurRadius > 0 averages the thresholded alpha over a
	// (2r+1)x(2r+1) texel box and squares the result.
	BlurRadius int
}

func DefaultParams() Params {
	return Params{Similarity: 0.4, Smoothness: 0.1}
}

func (p Params) Validate() error {
	if p.Similarity < 0 {
		return fmt.Errorf("%w: similarity %v is negative", ErrInvalidParams, p.Similarity)
	}
	if p.Smoothness < 0 {
		return fmt.Errorf("%w: smoothness %v is negative", ErrInvalidParams, p.Smoothness)
	}
	if p.BlurRadius < 0 {
		return fmt.Errorf("%w: blur radius %d is negative", ErrInvalidParams, p.BlurRadius)
	}
	return nil
}

// Compositor turns frame samples into premultiplied, keyed colors.
// It holds no per-frame state and is safe for concurrent use.
type Compositor struct {
	key       ColorRGBA
	keyChroma YCbCr
	params    Params
}

func NewCompositor(key ColorRGBA, params Params) (*Compositor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Compositor{
		key:       key,
		keyChroma: ToYCbCr(key),
		params:    params,
	}, nil
}

func (c *Compositor) Key() ColorRGBA { return c.key }

func (c *Compositor) Params() Params { return c.params }

// Threshold maps a single color to its matte alpha without blurring.
func (c *Compositor) Threshold(color ColorRGBA) float32 {
	dist := chromaDistance(ToYCbCr(color), c.keyChroma)
	return Smoothstep(c.params.Similarity, c.params.Similarity+c.params.Smoothness, dist)
}

// Matte is the key alpha at (u, v) before the sample's own alpha is
// applied. With a blur radius the thresholded alpha of the neighbourhood
// is averaged, one texel apart, and squared.
func (c *Compositor) Matte(frame Sampler, u, v float32) float32 {
	return c.matte(frame, frame.Sample(u, v), u, v)
}

func (c *Compositor) matte(frame Sampler, center ColorRGBA, u, v float32) float32 {
	r := c.params.BlurRadius
	if r == 0 {
		return c.Threshold(center)
	}

	w, h := frame.Size()
	if w == 0 || h == 0 {
		return c.Threshold(center)
	}
	du, dv := 1/float32(w), 1/float32(h)

	var sum float32
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				sum += c.Threshold(center)
				continue
			}
			sum += c.Threshold(frame.Sample(u+float32(dx)*du, v+float32(dy)*dv))
		}
	}
	side := float32(2*r + 1)
	avg := sum / (side * side)
	return avg * avg
}

// Composite returns the premultiplied output color for texture coordinate
// (u, v). Color channels always come from the center sample; only alpha
// is blurred.
func (c *Compositor) Composite(frame Sampler, u, v float32) ColorRGBA {
	color := frame.Sample(u, v)
	alpha := color.A * c.matte(frame, color, u, v)
	return ColorRGBA{
		R: color.R * alpha,
		G: color.G * alpha,
		B: color.B * alpha,
		A: alpha,
	}
}
