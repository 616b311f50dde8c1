package compose

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// BackgroundKind enumerates the closed set of background variants.
type BackgroundKind int

const (
	BackgroundNone BackgroundKind = iota
	BackgroundSolid
	BackgroundGradient
	BackgroundImage
)

func (k BackgroundKind) String() string {
	switch k {
	case BackgroundNone:
		return "none"
	case BackgroundSolid:
		return "solid"
	case BackgroundGradient:
		return "gradient"
	case BackgroundImage:
		return "image"
	default:
		return "unknown"
	}
}

// ParseBackgroundKind maps a wire-level kind name to a BackgroundKind.
func ParseBackgroundKind(name string) (BackgroundKind, bool) {
	switch name {
	case "none", "":
		return BackgroundNone, true
	case "solid":
		return BackgroundSolid, true
	case "gradient":
		return BackgroundGradient, true
	case "image":
		return BackgroundImage, true
	default:
		return 0, false
	}
}

// GradientStop is a color at a position along the canvas diagonal.
type GradientStop struct {
	Color color.RGBA
	Pos   float64
}

// Background is a tagged variant: exactly the fields for Kind are consulted.
type Background struct {
	Kind  BackgroundKind
	Color color.RGBA
	Stops []GradientStop
	Image image.Image
}

// renderBackground rasterizes the background into a fresh canvas-sized
// buffer. A BackgroundNone canvas clears to opaque white, except when the
// perspective stage follows: then it stays transparent so the trimmer can
// find the content's silhouette.
func renderBackground(bg Background, canvas CanvasSpec, perspectiveFollows bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, canvas.Width, canvas.Height))

	switch bg.Kind {
	case BackgroundNone:
		if !perspectiveFollows {
			fillSolid(dst, white)
		}
	case BackgroundSolid:
		fillSolid(dst, bg.Color)
	case BackgroundGradient:
		fillGradient(dst, bg.Stops)
	case BackgroundImage:
		if bg.Image == nil {
			fillSolid(dst, white)
			break
		}
		// Cover-fill: scale by max(cw/iw, ch/ih), center, crop overflow.
		cover := imaging.Fill(bg.Image, canvas.Width, canvas.Height, imaging.Center, imaging.Lanczos)
		draw.Draw(dst, dst.Bounds(), cover, image.Point{}, draw.Src)
	}
	return dst
}

func fillSolid(dst *image.RGBA, c color.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// fillGradient paints a linear gradient running from the canvas origin to
// the opposite corner. Stops are used verbatim in the order given: no
// resorting, no deduplication.
func fillGradient(dst *image.RGBA, stops []GradientStop) {
	if len(stops) == 0 {
		fillSolid(dst, white)
		return
	}
	if len(stops) == 1 {
		fillSolid(dst, stops[0].Color)
		return
	}

	b := dst.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	norm := w*w + h*h
	if norm == 0 {
		fillSolid(dst, stops[0].Color)
		return
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := (float64(x)*w + float64(y)*h) / norm
			dst.SetRGBA(x, y, gradientAt(stops, t))
		}
	}
}

// gradientAt evaluates the stop list at position t, interpolating inside the
// first segment in list order that brackets t.
func gradientAt(stops []GradientStop, t float64) color.RGBA {
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	for i := 0; i+1 < len(stops); i++ {
		lo, hi := stops[i], stops[i+1]
		if t < lo.Pos || t > hi.Pos {
			continue
		}
		span := hi.Pos - lo.Pos
		if span <= 0 {
			return hi.Color
		}
		return lerpRGBA(lo.Color, hi.Color, (t-lo.Pos)/span)
	}
	return stops[len(stops)-1].Color
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	it := 1 - t
	return color.RGBA{
		R: uint8(math.Round(float64(a.R)*it + float64(b.R)*t)),
		G: uint8(math.Round(float64(a.G)*it + float64(b.G)*t)),
		B: uint8(math.Round(float64(a.B)*it + float64(b.B)*t)),
		A: uint8(math.Round(float64(a.A)*it + float64(b.A)*t)),
	}
}
