package matte

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColorRGBA holds straight (non-premultiplied) channels in [0,1] unless
// documented otherwise by the producer.
type ColorRGBA struct {
	R, G, B, A float32
}

// DefaultKey is opaque pure green.
var DefaultKey = ColorRGBA{R: 0, G: 1, B: 0, A: 1}

// YCbCr is the luma/chroma split used for keying. Only Cb and Cr take part
// in the key decision so shading on the backdrop does not break the key.
type YCbCr struct {
	Y, Cb, Cr float32
}

func ToYCbCr(c ColorRGBA) YCbCr {
	y := 0.299*c.R + 0.587*c.G + 0.114*c.B
	return YCbCr{Y: y, Cb: c.B - y, Cr: c.R - y}
}

// ChromaDistance is the euclidean distance between the (Cb, Cr) vectors.
func ChromaDistance(a, b ColorRGBA) float32 {
	return chromaDistance(ToYCbCr(a), ToYCbCr(b))
}

func chromaDistance(a, b YCbCr) float32 {
	dcb := float64(a.Cb - b.Cb)
	dcr := float64(a.Cr - b.Cr)
	return float32(math.Hypot(dcb, dcr))
}

// Premultiply scales the color channels by alpha.
func (c ColorRGBA) Premultiply() ColorRGBA {
	return ColorRGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

func (c ColorRGBA) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

var namedColors = map[string]ColorRGBA{
	"green": {R: 0, G: 1, B: 0, A: 1},
	"blue":  {R: 0, G: 0, B: 1, A: 1},
	"red":   {R: 1, G: 0, B: 0, A: 1},
	"white": {R: 1, G: 1, B: 1, A: 1},
	"black": {R: 0, G: 0, B: 0, A: 1},
}

// ParseColor accepts a color name, #RRGGBB, #RRGGBBAA or the same digits
// with a 0x prefix.
func ParseColor(s string) (ColorRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return ColorRGBA{}, fmt.Errorf("invalid color %q: expected a name, #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ColorRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return ColorRGBA{
		R: float32(v>>24&0xff) / 255,
		G: float32(v>>16&0xff) / 255,
		B: float32(v>>8&0xff) / 255,
		A: float32(v&0xff) / 255,
	}, nil
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
