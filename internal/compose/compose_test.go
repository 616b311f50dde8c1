package compose

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func solidSource(t *testing.T, w, h int, c color.RGBA) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var (
	green = color.RGBA{G: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

// contentBounds returns the bounding box of pixels matching c exactly.
func contentBounds(img *image.RGBA, c color.RGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != c {
				continue
			}
			found = true
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
	return image.Rect(minX, minY, maxX+1, maxY+1), found
}

func TestStyleClamping(t *testing.T) {
	s := Style{Padding: 0.8, CornerRadius: 120}.Clamped()
	if s.Padding != MaxPaddingFraction {
		t.Fatalf("expected padding clamp to %v, got %v", MaxPaddingFraction, s.Padding)
	}
	if s.CornerRadius != MaxCornerRadius {
		t.Fatalf("expected corner radius clamp to %v, got %v", MaxCornerRadius, s.CornerRadius)
	}

	s = Style{Padding: -0.2, CornerRadius: -5}.Clamped()
	if s.Padding != 0 || s.CornerRadius != 0 {
		t.Fatalf("expected negative values to clamp to zero, got padding=%v radius=%v", s.Padding, s.CornerRadius)
	}

	s = Style{Background: Background{
		Kind:  BackgroundGradient,
		Stops: []GradientStop{{Pos: -0.5}, {Pos: 1.5}},
	}}.Clamped()
	if s.Background.Stops[0].Pos != 0 || s.Background.Stops[1].Pos != 1 {
		t.Fatalf("expected stop positions clamped to [0,1], got %+v", s.Background.Stops)
	}
}

func TestStyleClampedDoesNotMutateOriginalStops(t *testing.T) {
	stops := []GradientStop{{Pos: -1}}
	s := Style{Background: Background{Kind: BackgroundGradient, Stops: stops}}
	_ = s.Clamped()
	if stops[0].Pos != -1 {
		t.Fatal("Clamped mutated the caller's stop slice")
	}
}

func TestCornerRadiusClampedToHalfShorterDimension(t *testing.T) {
	canvas := NewCanvasSpec(1, QualityPreview)
	// A wide source yields a short placement; radius 50 must clamp to half
	// the placement height.
	p := placeContent(1000, 100, canvas, Style{Padding: 0.1, CornerRadius: 50}.Clamped())
	half := float64(min(p.rect.Dx(), p.rect.Dy())) / 2
	if p.radius != half {
		t.Fatalf("expected radius clamp to %v, got %v", half, p.radius)
	}

	p = placeContent(1000, 100, canvas, Style{Padding: 0.1, CornerRadius: 0})
	if p.radius != 0 {
		t.Fatalf("expected zero radius to stay zero, got %v", p.radius)
	}
}

func TestComposeZeroPaddingFillsCanvas(t *testing.T) {
	src := solidSource(t, 500, 500, green)
	canvas := NewCanvasSpec(1, QualityPreview)

	result := Compose(src, canvas, Style{Padding: 0})

	box, ok := contentBounds(result.Image, green)
	if !ok {
		t.Fatal("expected content pixels in output")
	}
	if box != result.Image.Bounds() {
		t.Fatalf("expected content to fill the canvas, got %v of %v", box, result.Image.Bounds())
	}
}

func TestComposeFullPaddingLeavesNoContent(t *testing.T) {
	src := solidSource(t, 500, 500, green)
	canvas := NewCanvasSpec(1, QualityPreview)

	result := Compose(src, canvas, Style{Padding: MaxPaddingFraction})

	if _, ok := contentBounds(result.Image, green); ok {
		t.Fatal("expected no content pixels at maximum padding")
	}
	if result.Width != canvas.Width || result.Height != canvas.Height {
		t.Fatalf("expected canvas-sized output, got %dx%d", result.Width, result.Height)
	}
}

func TestComposeIsIdempotent(t *testing.T) {
	src := solidSource(t, 320, 200, blue)
	canvas := NewCanvasSpec(16.0/9.0, QualityPreview)
	style := Style{
		Padding:      0.15,
		CornerRadius: 20,
		Background: Background{Kind: BackgroundGradient, Stops: []GradientStop{
			{Color: red, Pos: 0},
			{Color: blue, Pos: 1},
		}},
		Perspective: true,
		Direction:   DirectionTopRight,
	}

	first := Compose(src, canvas, style)
	second := Compose(src, canvas, style)

	if first.Width != second.Width || first.Height != second.Height {
		t.Fatalf("dimension mismatch: %dx%d vs %dx%d", first.Width, first.Height, second.Width, second.Height)
	}
	if !bytes.Equal(first.Image.Pix, second.Image.Pix) {
		t.Fatal("expected pixel-identical results for identical inputs")
	}
}

// Scenario: 1920x1080 source, auto ratio, 20% padding, no corner radius, no
// background, flat render. The canvas resolves to the widescreen preset at
// preview resolution and the content covers 60% of each dimension, centered.
func TestComposeWidescreenAutoScenario(t *testing.T) {
	src := solidSource(t, 1920, 1080, green)

	ratio, ok := ResolveRatio("auto", 1920, 1080)
	if !ok {
		t.Fatal("auto ratio must resolve")
	}
	if ratio != 16.0/9.0 {
		t.Fatalf("expected 16:9 preset, got %v", ratio)
	}

	canvas := NewCanvasSpec(ratio, QualityPreview)
	if canvas.Width < 999 || canvas.Width > 1001 {
		t.Fatalf("expected canvas width 1000±1, got %d", canvas.Width)
	}
	if canvas.Height < 562 || canvas.Height > 563 {
		t.Fatalf("expected canvas height 562±1, got %d", canvas.Height)
	}

	result := Compose(src, canvas, Style{Padding: 0.2})

	box, ok := contentBounds(result.Image, green)
	if !ok {
		t.Fatal("expected content pixels in output")
	}

	wantW := int(0.6 * float64(canvas.Width))
	wantH := int(0.6 * float64(canvas.Height))
	if diff := box.Dx() - wantW; diff < -2 || diff > 2 {
		t.Fatalf("expected content width ~%d, got %d", wantW, box.Dx())
	}
	if diff := box.Dy() - wantH; diff < -2 || diff > 2 {
		t.Fatalf("expected content height ~%d, got %d", wantH, box.Dy())
	}

	// Centered: margins on opposite sides agree within rounding.
	if left, right := box.Min.X, canvas.Width-box.Max.X; abs(left-right) > 2 {
		t.Fatalf("content not horizontally centered: left=%d right=%d", left, right)
	}
	if top, bottom := box.Min.Y, canvas.Height-box.Max.Y; abs(top-bottom) > 2 {
		t.Fatalf("content not vertically centered: top=%d bottom=%d", top, bottom)
	}

	// Background "none" without perspective clears to opaque white.
	if c := result.Image.RGBAAt(0, 0); c != white {
		t.Fatalf("expected white canvas corner, got %v", c)
	}
}

// Scenario: solid red background, zero padding, 25px corner radius, flat
// render. All four canvas corners stay red; the content is visible with
// rounded corners.
func TestComposeSolidBackgroundRoundedCornersScenario(t *testing.T) {
	src := solidSource(t, 1000, 1000, blue)
	canvas := NewCanvasSpec(1, QualityPreview)
	style := Style{
		Padding:      0,
		CornerRadius: 25,
		Background:   Background{Kind: BackgroundSolid, Color: red},
	}

	result := Compose(src, canvas, style)

	w, h := result.Width, result.Height
	for _, pt := range []image.Point{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		if c := result.Image.RGBAAt(pt.X, pt.Y); c != red {
			t.Fatalf("expected red at canvas corner %v, got %v", pt, c)
		}
	}
	if c := result.Image.RGBAAt(w/2, h/2); c != blue {
		t.Fatalf("expected content at canvas center, got %v", c)
	}
	// Inside the 25px arc the content shows through.
	if c := result.Image.RGBAAt(25, 25); c != blue {
		t.Fatalf("expected content just inside the corner arc, got %v", c)
	}
}

// Scenario: perspective toward bottom-right over a transparent canvas. The
// trimmed output is smaller than the pre-trim buffer and keeps opaque
// content at its center.
func TestComposePerspectiveTrimScenario(t *testing.T) {
	src := solidSource(t, 400, 300, green)
	canvas := NewCanvasSpec(4.0/3.0, QualityPreview)
	style := Style{
		Padding:     0.1,
		Perspective: true,
		Direction:   DirectionBottomRight,
	}

	result := Compose(src, canvas, style)

	// Pre-trim buffer: canvas expanded by the warp growth margin.
	p := placeContent(400, 300, canvas, style.Clamped())
	preTrimW := canvas.Width + (int(1.5*float64(p.rect.Dx())) - p.rect.Dx())
	preTrimH := canvas.Height + (int(1.5*float64(p.rect.Dy())) - p.rect.Dy())

	if result.Width <= 0 || result.Height <= 0 {
		t.Fatalf("expected non-empty output, got %dx%d", result.Width, result.Height)
	}
	if result.Width >= preTrimW && result.Height >= preTrimH {
		t.Fatalf("expected trim to shrink the %dx%d buffer, got %dx%d", preTrimW, preTrimH, result.Width, result.Height)
	}
	if a := result.Image.RGBAAt(result.Width/2, result.Height/2).A; a <= trimAlphaThreshold {
		t.Fatalf("expected opaque content at output center, got alpha %d", a)
	}
}

func TestComposeDegenerateSourceStillRenders(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 0, 0))
	canvas := NewCanvasSpec(1, QualityPreview)

	result := Compose(src, canvas, Style{Perspective: true, Direction: DirectionTop})

	if result.Width != canvas.Width || result.Height != canvas.Height {
		t.Fatalf("expected flat fallback at canvas size, got %dx%d", result.Width, result.Height)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
