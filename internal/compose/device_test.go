package compose

import (
	"image"
	"image/color"
	"testing"
)

// frameWithCutout builds a device raster: an opaque bezel with a transparent
// screen hole matching the given normalized area.
func frameWithCutout(t *testing.T, w, h int, screen ScreenArea) *image.RGBA {
	t.Helper()
	frame := solidSource(t, w, h, blue)
	hole := image.Rect(
		int(screen.X*float64(w)),
		int(screen.Y*float64(h)),
		int((screen.X+screen.W)*float64(w)),
		int((screen.Y+screen.H)*float64(h)),
	)
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		for x := hole.Min.X; x < hole.Max.X; x++ {
			frame.SetRGBA(x, y, color.RGBA{})
		}
	}
	return frame
}

func TestRenderDeviceContentMapsScreenArea(t *testing.T) {
	screen := ScreenArea{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}
	frame := frameWithCutout(t, 200, 200, screen)
	src := solidSource(t, 300, 300, green)

	p := placement{rect: image.Rect(0, 0, 200, 200)}
	out := renderDeviceContent(src, &DeviceFrame{Frame: frame, Screens: []ScreenArea{screen}}, p)

	// Screen center shows the content through the cutout.
	if c := out.RGBAAt(100, 100); c != green {
		t.Fatalf("expected content in the screen area, got %v", c)
	}
	// The bezel hides everything outside the screen.
	if c := out.RGBAAt(10, 10); c != blue {
		t.Fatalf("expected bezel pixel, got %v", c)
	}
}

func TestRenderDeviceContentTwoScreens(t *testing.T) {
	// Combined preset: two side-by-side screens on one frame.
	left := ScreenArea{X: 0.05, Y: 0.2, W: 0.4, H: 0.6}
	right := ScreenArea{X: 0.55, Y: 0.2, W: 0.4, H: 0.6}

	frame := image.NewRGBA(image.Rect(0, 0, 200, 100)) // fully transparent frame
	src := solidSource(t, 100, 100, green)

	p := placement{rect: image.Rect(0, 0, 200, 100)}
	out := renderDeviceContent(src, &DeviceFrame{Frame: frame, Screens: []ScreenArea{left, right}}, p)

	if c := out.RGBAAt(50, 50); c != green {
		t.Fatalf("expected content in the left screen, got %v", c)
	}
	if c := out.RGBAAt(150, 50); c != green {
		t.Fatalf("expected content in the right screen, got %v", c)
	}
	if a := out.RGBAAt(100, 5).A; a != 0 {
		t.Fatalf("expected transparent gap between screens, got alpha %d", a)
	}
}

func TestComposeWithDeviceFrameUsesFrameAspect(t *testing.T) {
	screen := ScreenArea{X: 0.1, Y: 0.1, W: 0.8, H: 0.8}
	frame := frameWithCutout(t, 400, 200, screen)
	src := solidSource(t, 100, 300, green) // portrait content, landscape frame

	spec := NewCanvasSpec(2.0, QualityPreview)
	result := Compose(src, spec, Style{
		Padding:     0.1,
		Background:  Background{Kind: BackgroundSolid, Color: red},
		DeviceFrame: &DeviceFrame{Frame: frame, Screens: []ScreenArea{screen}},
	})

	// The placement follows the frame's 2:1 aspect, so bezel pixels appear
	// inside the padded area.
	if _, ok := contentBounds(result.Image, blue); !ok {
		t.Fatal("expected bezel pixels in the composition")
	}
	if _, ok := contentBounds(result.Image, green); !ok {
		t.Fatal("expected screen content in the composition")
	}
}
