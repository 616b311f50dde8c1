package compose

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Element is a closed union of annotation kinds. Each variant carries its
// own geometry and is rendered by an exhaustive switch in drawElement;
// the unexported marker keeps the set closed to this package.
type Element interface {
	element()
}

// TextElement draws a label anchored at a canvas point.
type TextElement struct {
	Pos   image.Point
	Text  string
	Color color.RGBA
}

// ArrowElement draws a shafted arrow from tail to head.
type ArrowElement struct {
	From  image.Point
	To    image.Point
	Width float64
	Color color.RGBA
}

// HighlightElement tints a rectangular region with a translucent color.
type HighlightElement struct {
	Rect  image.Rectangle
	Color color.RGBA
}

func (TextElement) element()      {}
func (ArrowElement) element()     {}
func (HighlightElement) element() {}

// drawElements renders annotations onto the composed canvas in order.
func drawElements(dst *image.RGBA, elements []Element) {
	for _, el := range elements {
		drawElement(dst, el)
	}
}

func drawElement(dst *image.RGBA, el Element) {
	switch e := el.(type) {
	case TextElement:
		drawText(dst, e)
	case ArrowElement:
		drawArrow(dst, e)
	case HighlightElement:
		drawHighlight(dst, e)
	}
}

func drawText(dst *image.RGBA, e TextElement) {
	if e.Text == "" {
		return
	}
	c := e.Color
	if c.A == 0 {
		c = color.RGBA{A: 255}
	}
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(e.Pos.X, e.Pos.Y),
	}
	drawer.DrawString(e.Text)
}

func drawHighlight(dst *image.RGBA, e HighlightElement) {
	c := e.Color
	if c.A == 0 {
		// Marker-style default: 35% opacity.
		c.A = 90
	}
	region := e.Rect.Intersect(dst.Bounds())
	if region.Empty() {
		return
	}
	draw.Draw(dst, region, image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}), image.Point{}, draw.Over)
}

func drawArrow(dst *image.RGBA, e ArrowElement) {
	width := e.Width
	if width <= 0 {
		width = 4
	}
	c := e.Color
	if c.A == 0 {
		c = color.RGBA{A: 255}
	}

	fx := float64(e.From.X)
	fy := float64(e.From.Y)
	tx := float64(e.To.X)
	ty := float64(e.To.Y)

	dx := tx - fx
	dy := ty - fy
	length := math.Hypot(dx, dy)
	if length < 1 {
		return
	}
	ux, uy := dx/length, dy/length

	headLength := math.Min(4*width, length/2)
	shaftEndX := tx - ux*headLength
	shaftEndY := ty - uy*headLength

	drawThickLine(dst, fx, fy, shaftEndX, shaftEndY, width/2, c)

	// Head: filled triangle with wings perpendicular to the shaft.
	wing := headLength * 0.6
	px, py := -uy, ux
	fillTriangle(dst,
		vec2{tx, ty},
		vec2{shaftEndX + px*wing, shaftEndY + py*wing},
		vec2{shaftEndX - px*wing, shaftEndY - py*wing},
		c)
}

// drawThickLine stamps the segment by testing each pixel of its bounding box
// against the distance to the segment.
func drawThickLine(dst *image.RGBA, x0, y0, x1, y1, halfWidth float64, c color.RGBA) {
	minX := int(math.Floor(math.Min(x0, x1) - halfWidth))
	maxX := int(math.Ceil(math.Max(x0, x1) + halfWidth))
	minY := int(math.Floor(math.Min(y0, y1) - halfWidth))
	maxY := int(math.Ceil(math.Max(y0, y1) + halfWidth))

	dx := x1 - x0
	dy := y1 - y0
	lenSq := dx*dx + dy*dy

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !image.Pt(x, y).In(dst.Bounds()) {
				continue
			}
			px := float64(x) + 0.5 - x0
			py := float64(y) + 0.5 - y0
			t := 0.0
			if lenSq > 0 {
				t = math.Max(0, math.Min(1, (px*dx+py*dy)/lenSq))
			}
			distX := px - t*dx
			distY := py - t*dy
			if math.Hypot(distX, distY) <= halfWidth {
				dst.SetRGBA(x, y, c)
			}
		}
	}
}

func fillTriangle(dst *image.RGBA, a, b, c vec2, col color.RGBA) {
	minX := int(math.Floor(math.Min(a.x, math.Min(b.x, c.x))))
	maxX := int(math.Ceil(math.Max(a.x, math.Max(b.x, c.x))))
	minY := int(math.Floor(math.Min(a.y, math.Min(b.y, c.y))))
	maxY := int(math.Ceil(math.Max(a.y, math.Max(b.y, c.y))))

	edge := func(p, q, r vec2) float64 {
		return (q.x-p.x)*(r.y-p.y) - (q.y-p.y)*(r.x-p.x)
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !image.Pt(x, y).In(dst.Bounds()) {
				continue
			}
			p := vec2{float64(x) + 0.5, float64(y) + 0.5}
			w0 := edge(a, b, p)
			w1 := edge(b, c, p)
			w2 := edge(c, a, p)
			if (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0) {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}
