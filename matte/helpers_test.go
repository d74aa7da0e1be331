package matte

import (
	"image"
	"image/color"
)

var (
	green = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	red   = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

func uniformTexture(w, h int, c color.NRGBA) *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return NewTexture(img)
}

// checkerboard alternates a and b on every texel.
func checkerboard(w, h int, a, b color.NRGBA) *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return NewTexture(img)
}

func texelCenter(i, n int) float32 {
	return (float32(i) + 0.5) / float32(n)
}

func variance(values []float32) float64 {
	var mean float64
	for _, v := range values {
		mean += float64(v)
	}
	mean /= float64(len(values))
	var sum float64
	for _, v := range values {
		d := float64(v) - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// borderedTexture is inner surrounded by a one-texel frame of border.
func borderedTexture(size int, inner, border color.NRGBA) *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				img.SetNRGBA(x, y, border)
			} else {
				img.SetNRGBA(x, y, inner)
			}
		}
	}
	return NewTexture(img)
}

func colorNRGBA(c ColorRGBA) color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}
