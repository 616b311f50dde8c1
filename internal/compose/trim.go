package compose

import (
	"image"
	"image/draw"
)

const (
	// trimAlphaThreshold: pixels at or below ~5% opacity count as empty.
	trimAlphaThreshold = 12

	// trimMargin pads the detected bounding box before cropping.
	trimMargin = 20
)

// trimTransparent crops a buffer to the bounding box of its
// non-transparent pixels, expanded by a fixed margin and clamped to the
// buffer. A fully transparent or degenerate result returns the input
// unchanged; the trim never grows the buffer and never returns an empty one.
func trimTransparent(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if src.Pix[src.PixOffset(x, y)+3] <= trimAlphaThreshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if minX >= maxX || minY >= maxY {
		return src
	}

	box := image.Rect(minX-trimMargin, minY-trimMargin, maxX+1+trimMargin, maxY+1+trimMargin).Intersect(b)
	if box == b {
		return src
	}

	out := image.NewRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	draw.Draw(out, out.Bounds(), src, box.Min, draw.Src)
	return out
}
