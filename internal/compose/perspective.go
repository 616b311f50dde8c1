package compose

import (
	"image"
	"image/draw"
	"math"
)

const (
	// tiltAngle is the fixed simulated-3D rotation, pi/12 (15 degrees).
	tiltAngle = math.Pi / 12

	// perspectiveDepth is the foreshortening divisor: a corner at depth z is
	// scaled by 1/(1 - z/perspectiveDepth).
	perspectiveDepth = 800.0

	// tiltScale compensates for the apparent shrink of rotated content.
	tiltScale = 1.05

	// warpExpand grows the intermediate buffer so the rotated silhouette and
	// its shadow are never clipped.
	warpExpand = 1.5

	shadowDistance   = 20
	shadowBlurPasses = 3
	shadowBoxRadius  = 6
	shadowOpacity    = 0.45
)

// matrix3 is a row-major 3x3 projective matrix.
type matrix3 [9]float64

func (m matrix3) apply(x, y, w float64) (float64, float64, float64) {
	return m[0]*x + m[1]*y + m[2]*w,
		m[3]*x + m[4]*y + m[5]*w,
		m[6]*x + m[7]*y + m[8]*w
}

// invert returns the inverse via the adjugate, reporting ok=false for a
// near-singular matrix.
func (m matrix3) invert() (matrix3, bool) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math.Abs(det) < 1e-12 {
		return matrix3{}, false
	}
	inv := 1 / det
	return matrix3{
		(e*i - f*h) * inv, (c*h - b*i) * inv, (b*f - c*e) * inv,
		(f*g - d*i) * inv, (a*i - c*g) * inv, (c*d - a*f) * inv,
		(d*h - e*g) * inv, (b*g - a*h) * inv, (a*e - b*d) * inv,
	}, true
}

type vec2 struct{ x, y float64 }

// projectCorners rotates the content plane's corners in 3D and projects them
// back to 2D with foreshortening. Corners are returned in top-left,
// top-right, bottom-right, bottom-left order, centered on the origin.
// ok is false when any corner degenerates behind the eye plane.
func projectCorners(w, h float64, dir Direction) (quad [4]vec2, ok bool) {
	sx, sy := dir.tiltSigns()
	ax := sx * tiltAngle
	ay := sy * tiltAngle

	cosX, sinX := math.Cos(ax), math.Sin(ax)
	cosY, sinY := math.Cos(ay), math.Sin(ay)

	corners := [4]vec2{
		{-w / 2, -h / 2},
		{w / 2, -h / 2},
		{w / 2, h / 2},
		{-w / 2, h / 2},
	}
	for i, c := range corners {
		// Rotate around X, then Y. The plane starts at z = 0.
		ry := c.y * cosX
		rz := c.y * sinX
		rx := c.x*cosY + rz*sinY
		rz = -c.x*sinY + rz*cosY

		denom := 1 - rz/perspectiveDepth
		if denom < 1e-6 {
			return quad, false
		}
		quad[i] = vec2{
			x: rx * tiltScale / denom,
			y: ry * tiltScale / denom,
		}
	}
	return quad, true
}

// homographyFromUnitSquare builds the projective map taking the unit square
// (0,0)-(1,1) onto the quad (top-left, top-right, bottom-right, bottom-left).
func homographyFromUnitSquare(q [4]vec2) (matrix3, bool) {
	x0, y0 := q[0].x, q[0].y
	x1, y1 := q[1].x, q[1].y
	x2, y2 := q[2].x, q[2].y
	x3, y3 := q[3].x, q[3].y

	dx1, dy1 := x1-x2, y1-y2
	dx2, dy2 := x3-x2, y3-y2
	sx := x0 - x1 + x2 - x3
	sy := y0 - y1 + y2 - y3

	var g, h float64
	if math.Abs(sx) < 1e-9 && math.Abs(sy) < 1e-9 {
		// Affine case.
		g, h = 0, 0
	} else {
		det := dx1*dy2 - dy1*dx2
		if math.Abs(det) < 1e-12 {
			return matrix3{}, false
		}
		g = (sx*dy2 - sy*dx2) / det
		h = (dx1*sy - dy1*sx) / det
	}

	return matrix3{
		x1 - x0 + g*x1, x3 - x0 + h*x3, x0,
		y1 - y0 + g*y1, y3 - y0 + h*y3, y0,
		g, h, 1,
	}, true
}

// warpPerspective remaps the content buffer through the direction's 3D tilt
// into a larger transparent buffer, content centered. ok is false when the
// transform cannot be constructed; callers fall back to the flat render.
func warpPerspective(content *image.RGBA, dir Direction) (*image.RGBA, bool) {
	cb := content.Bounds()
	w := float64(cb.Dx())
	h := float64(cb.Dy())
	if w <= 0 || h <= 0 {
		return nil, false
	}

	quad, ok := projectCorners(w, h, dir)
	if !ok {
		return nil, false
	}

	outW := int(math.Ceil(w * warpExpand))
	outH := int(math.Ceil(h * warpExpand))
	cx := float64(outW) / 2
	cy := float64(outH) / 2
	for i := range quad {
		quad[i].x += cx
		quad[i].y += cy
	}

	fwd, ok := homographyFromUnitSquare(quad)
	if !ok {
		return nil, false
	}
	inv, ok := fwd.invert()
	if !ok {
		return nil, false
	}

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	for py := 0; py < outH; py++ {
		for px := 0; px < outW; px++ {
			ux, uy, uw := inv.apply(float64(px)+0.5, float64(py)+0.5, 1)
			if math.Abs(uw) < 1e-9 {
				continue
			}
			u := ux / uw
			v := uy / uw
			if u < 0 || u > 1 || v < 0 || v > 1 {
				continue
			}
			r, g, b, a := bilinearRGBA(content, u*w-0.5, v*h-0.5)
			if a == 0 {
				continue
			}
			i := out.PixOffset(px, py)
			out.Pix[i+0] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
			out.Pix[i+3] = a
		}
	}
	return out, true
}

// bilinearRGBA samples the (alpha-premultiplied) buffer at a fractional
// coordinate, treating everything outside the bounds as transparent.
func bilinearRGBA(src *image.RGBA, x, y float64) (r, g, b, a uint8) {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	var cr, cg, cb, ca float64
	accumulate := func(px, py int, weight float64) {
		if weight == 0 || !image.Pt(px, py).In(src.Bounds()) {
			return
		}
		i := src.PixOffset(px, py)
		cr += float64(src.Pix[i+0]) * weight
		cg += float64(src.Pix[i+1]) * weight
		cb += float64(src.Pix[i+2]) * weight
		ca += float64(src.Pix[i+3]) * weight
	}
	accumulate(x0, y0, w00)
	accumulate(x0+1, y0, w10)
	accumulate(x0, y0+1, w01)
	accumulate(x0+1, y0+1, w11)

	return uint8(cr + 0.5), uint8(cg + 0.5), uint8(cb + 0.5), uint8(ca + 0.5)
}

// dropShadow composites a blurred, offset copy of the buffer's silhouette in
// black beneath the content and returns the combined buffer.
func dropShadow(warped *image.RGBA, dir Direction) *image.RGBA {
	b := warped.Bounds()
	w, h := b.Dx(), b.Dy()
	dx, dy := dir.shadowOffset()

	mask := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := x-dx, y-dy
			if sx < 0 || sx >= w || sy < 0 || sy >= h {
				continue
			}
			mask[y*w+x] = warped.Pix[warped.PixOffset(sx, sy)+3]
		}
	}
	for pass := 0; pass < shadowBlurPasses; pass++ {
		mask = boxBlurAlpha(mask, w, h, shadowBoxRadius)
	}

	out := image.NewRGBA(b)
	for i, m := range mask {
		// Premultiplied black at the blurred mask's opacity.
		out.Pix[i*4+3] = uint8(float64(m)*shadowOpacity + 0.5)
	}
	draw.Draw(out, b, warped, b.Min, draw.Over)
	return out
}

// boxBlurAlpha runs one separable box-blur pass over a w x h alpha plane.
func boxBlurAlpha(src []uint8, w, h, radius int) []uint8 {
	if radius <= 0 {
		return src
	}
	window := 2*radius + 1

	horiz := make([]uint8, len(src))
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		sum := 0
		for x := -radius; x <= radius; x++ {
			sum += int(rowAt(row, x))
		}
		for x := 0; x < w; x++ {
			horiz[y*w+x] = uint8(sum / window)
			sum += int(rowAt(row, x+radius+1)) - int(rowAt(row, x-radius))
		}
	}

	out := make([]uint8, len(src))
	for x := 0; x < w; x++ {
		sum := 0
		for y := -radius; y <= radius; y++ {
			sum += int(colAt(horiz, w, h, x, y))
		}
		for y := 0; y < h; y++ {
			out[y*w+x] = uint8(sum / window)
			sum += int(colAt(horiz, w, h, x, y+radius+1)) - int(colAt(horiz, w, h, x, y-radius))
		}
	}
	return out
}

func rowAt(row []uint8, x int) uint8 {
	if x < 0 || x >= len(row) {
		return 0
	}
	return row[x]
}

func colAt(plane []uint8, w, h, x, y int) uint8 {
	if y < 0 || y >= h {
		return 0
	}
	return plane[y*w+x]
}
