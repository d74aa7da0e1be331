package matte

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"golang_chromakey/geometry"
)

// Render composites frame through quad into every pixel of dst. Rows are
// split into bands rendered concurrently; each pixel reads only the
// immutable frame and writes only its own dst slot. Pixels outside the
// quad are cleared to transparent.
func (c *Compositor) Render(ctx context.Context, dst *image.RGBA, frame Sampler, quad geometry.Quad) error {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	inside := quad.PixelBounds(w, h)

	bands := runtime.GOMAXPROCS(0)
	if bands > h {
		bands = h
	}
	rowsPerBand := (h + bands - 1) / bands

	g, ctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < h; y0 += rowsPerBand {
		y0, y1 := y0, min(y0+rowsPerBand, h)
		g.Go(func() error {
			for py := y0; py < y1; py++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				c.renderRow(dst, frame, quad, inside, py, w, h)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Compositor) renderRow(dst *image.RGBA, frame Sampler, quad geometry.Quad, inside image.Rectangle, py, w, h int) {
	off := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+py)
	row := dst.Pix[off : off+w*4]
	if py < inside.Min.Y || py >= inside.Max.Y {
		clear(row)
		return
	}
	for px := 0; px < w; px++ {
		out := row[px*4 : px*4+4 : px*4+4]
		if px < inside.Min.X || px >= inside.Max.X {
			clear(out)
			continue
		}
		x, y := geometry.PixelToClip(px, py, w, h)
		u, v, ok := quad.TexCoordAt(x, y)
		if !ok {
			clear(out)
			continue
		}
		col := c.Composite(frame, u, v)
		out[0] = to8(col.R)
		out[1] = to8(col.G)
		out[2] = to8(col.B)
		out[3] = to8(col.A)
	}
}
