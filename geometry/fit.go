package geometry

import (
	"errors"
	"fmt"
)

var ErrInvalidDimensions = errors.New("surface and video dimensions must be positive")

// Vertex is one corner of the fitted quad. X/Y are clip-space positions
// (y up), U/V are texture coordinates (v down, matching decoded frames).
type Vertex struct {
	X, Y float32
	U, V float32
}

// Quad is a triangle list of two triangles covering the fitted video.
type Quad struct {
	ScaleX, ScaleY float32
	Vertices       [6]Vertex
}

// Fit shrinks a unit quad along one axis so the video keeps its aspect
// ratio inside the surface without cropping.
func Fit(surfaceW, surfaceH, videoW, videoH int) (Quad, error) {
	if surfaceW <= 0 || surfaceH <= 0 || videoW <= 0 || videoH <= 0 {
		return Quad{}, fmt.Errorf("fit %dx%d into %dx%d: %w", videoW, videoH, surfaceW, surfaceH, ErrInvalidDimensions)
	}

	canvasAspect := float32(surfaceW) / float32(surfaceH)
	videoAspect := float32(videoW) / float32(videoH)

	scaleX, scaleY := float32(1), float32(1)
	if canvasAspect > videoAspect {
		scaleX = videoAspect / canvasAspect
	} else {
		scaleY = canvasAspect / videoAspect
	}

	return newQuad(scaleX, scaleY), nil
}

func newQuad(sx, sy float32) Quad {
	// top edge of the quad samples row 0 of the frame
	bl := Vertex{X: -sx, Y: -sy, U: 0, V: 1}
	br := Vertex{X: sx, Y: -sy, U: 1, V: 1}
	tl := Vertex{X: -sx, Y: sy, U: 0, V: 0}
	tr := Vertex{X: sx, Y: sy, U: 1, V: 0}

	return Quad{
		ScaleX:   sx,
		ScaleY:   sy,
		Vertices: [6]Vertex{bl, br, tl, tl, br, tr},
	}
}

// Positions returns the interleaved x,y pairs of the triangle list.
func (q Quad) Positions() []float32 {
	out := make([]float32, 0, len(q.Vertices)*2)
	for _, v := range q.Vertices {
		out = append(out, v.X, v.Y)
	}
	return out
}

// TexCoords returns the interleaved u,v pairs of the triangle list.
func (q Quad) TexCoords() []float32 {
	out := make([]float32, 0, len(q.Vertices)*2)
	for _, v := range q.Vertices {
		out = append(out, v.U, v.V)
	}
	return out
}
