package geometry

import (
	"image"
	"math"
)

// PixelToClip maps the center of surface pixel (px, py) to clip space.
// Surface rows grow downwards, clip-space y grows upwards.
func PixelToClip(px, py, w, h int) (x, y float32) {
	x = (float32(px)+0.5)/float32(w)*2 - 1
	y = 1 - (float32(py)+0.5)/float32(h)*2
	return x, y
}

// PixelBounds is the smallest pixel rectangle of a w x h surface that
// contains the quad. Pixels outside it are letterbox/pillarbox bars.
func (q Quad) PixelBounds(w, h int) image.Rectangle {
	x0 := int(math.Floor(float64((1 - q.ScaleX) / 2 * float32(w))))
	x1 := int(math.Ceil(float64((1 + q.ScaleX) / 2 * float32(w))))
	y0 := int(math.Floor(float64((1 - q.ScaleY) / 2 * float32(h))))
	y1 := int(math.Ceil(float64((1 + q.ScaleY) / 2 * float32(h))))
	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, w, h))
}

// TexCoordAt interpolates the texture coordinate at clip-space point
// (x, y). ok is false when the point lies outside both triangles.
func (q Quad) TexCoordAt(x, y float32) (u, v float32, ok bool) {
	for t := 0; t < len(q.Vertices); t += 3 {
		a, b, c := q.Vertices[t], q.Vertices[t+1], q.Vertices[t+2]
		wa, wb, wc, inside := barycentric(a, b, c, x, y)
		if !inside {
			continue
		}
		u = wa*a.U + wb*b.U + wc*c.U
		v = wa*a.V + wb*b.V + wc*c.V
		return u, v, true
	}
	return 0, 0, false
}

const edgeEpsilon = 1e-6

func barycentric(a, b, c Vertex, x, y float32) (wa, wb, wc float32, inside bool) {
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if det == 0 {
		return 0, 0, 0, false
	}
	wa = ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / det
	wb = ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / det
	wc = 1 - wa - wb
	inside = wa >= -edgeEpsilon && wb >= -edgeEpsilon && wc >= -edgeEpsilon
	return wa, wb, wc, inside
}
