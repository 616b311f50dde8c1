package compose

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// placement is the region of the canvas the source image occupies.
type placement struct {
	rect   image.Rectangle
	radius float64
}

// placeContent computes the centered, aspect-preserving placement rectangle
// for a source of srcW x srcH inside the canvas, honoring the padding
// fraction, and clamps the corner radius to half the shorter placement
// dimension.
func placeContent(srcW, srcH int, canvas CanvasSpec, style Style) placement {
	availW := float64(canvas.Width) * (1 - 2*style.Padding)
	availH := float64(canvas.Height) * (1 - 2*style.Padding)
	if availW < 0 {
		availW = 0
	}
	if availH < 0 {
		availH = 0
	}

	srcRatio := 1.0
	if srcW > 0 && srcH > 0 {
		srcRatio = float64(srcW) / float64(srcH)
	}
	canvasRatio := float64(canvas.Width) / float64(canvas.Height)

	var drawW, drawH float64
	if srcRatio > canvasRatio {
		drawW = availW
		drawH = drawW / srcRatio
	} else {
		drawH = availH
		drawW = drawH * srcRatio
	}

	// Centered within the full canvas, not just the padded box.
	x0 := (float64(canvas.Width) - drawW) / 2
	y0 := (float64(canvas.Height) - drawH) / 2
	rect := image.Rect(
		int(math.Round(x0)),
		int(math.Round(y0)),
		int(math.Round(x0+drawW)),
		int(math.Round(y0+drawH)),
	)

	radius := style.CornerRadius
	if half := math.Min(drawW, drawH) / 2; radius > half {
		radius = half
	}
	if radius < 0 {
		radius = 0
	}
	return placement{rect: rect, radius: radius}
}

// renderContent scales the source into a fresh buffer of the placement size
// and applies the rounded-corner clip. Pixels outside the clip path are
// discarded, not blended.
func renderContent(src image.Image, p placement) *image.RGBA {
	w, h := p.rect.Dx(), p.rect.Dy()
	content := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 || src.Bounds().Empty() {
		return content
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	if p.radius <= 0 {
		draw.Draw(content, content.Bounds(), scaled, image.Point{}, draw.Src)
		return content
	}

	mask := roundedRectMask(w, h, p.radius)
	draw.DrawMask(content, content.Bounds(), scaled, image.Point{}, mask, image.Point{}, draw.Src)
	return content
}

// kappa approximates a quarter circle with one cubic Bezier segment.
const kappa = 0.5522847498307936

// roundedRectMask rasterizes an anti-aliased w x h rounded rectangle into an
// alpha mask.
func roundedRectMask(w, h int, radius float64) *image.Alpha {
	fw, fh := float32(w), float32(h)
	r := float32(radius)
	k := float32(kappa)

	z := vector.NewRasterizer(w, h)
	z.MoveTo(r, 0)
	z.LineTo(fw-r, 0)
	z.CubeTo(fw-r+k*r, 0, fw, r-k*r, fw, r)
	z.LineTo(fw, fh-r)
	z.CubeTo(fw, fh-r+k*r, fw-r+k*r, fh, fw-r, fh)
	z.LineTo(r, fh)
	z.CubeTo(r-k*r, fh, 0, fh-r+k*r, 0, fh-r)
	z.LineTo(0, r)
	z.CubeTo(0, r-k*r, r-k*r, 0, r, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
