// Package compose implements the canvas composition pipeline: aspect-ratio
// resolution, canvas sizing, background rendering, content placement with
// rounded-corner clipping, an optional simulated-3D perspective tilt with
// drop shadow, and transparent-margin trimming.
//
// Compose is a pure function of its inputs: the source raster is only read,
// every stage allocates a fresh buffer, and identical inputs produce
// pixel-identical results.
package compose

import (
	"image"
	"image/draw"
)

// CompositionResult is the final composited raster. It is recomputed from
// scratch on every parameter change and never mutated after creation.
type CompositionResult struct {
	Image  *image.RGBA
	Width  int
	Height int
}

// Compose renders the source image onto a styled canvas. The style is
// clamped before use; fallbacks (missing background image, degenerate
// perspective transform, degenerate trim box) resolve internally, so there
// is no error path.
func Compose(src image.Image, canvas CanvasSpec, style Style) CompositionResult {
	style = style.Clamped()

	fitW := src.Bounds().Dx()
	fitH := src.Bounds().Dy()
	if style.DeviceFrame != nil && style.DeviceFrame.Frame != nil {
		// The frame raster, not the raw content, dictates the placement
		// aspect; content maps into the frame's screen areas.
		fitW = style.DeviceFrame.Frame.Bounds().Dx()
		fitH = style.DeviceFrame.Frame.Bounds().Dy()
	}

	p := placeContent(fitW, fitH, canvas, style)
	tilted := style.Perspective && p.rect.Dx() > 0 && p.rect.Dy() > 0 && !src.Bounds().Empty()

	background := renderBackground(style.Background, canvas, tilted)

	var content *image.RGBA
	if style.DeviceFrame != nil && style.DeviceFrame.Frame != nil {
		content = renderDeviceContent(src, style.DeviceFrame, p)
	} else {
		content = renderContent(src, p)
	}
	drawElements(content, style.Annotations)

	if tilted {
		if warped, ok := warpPerspective(content, style.Direction); ok {
			shadowed := dropShadow(warped, style.Direction)
			merged := compositeTilted(background, shadowed, p)
			trimmed := trimTransparent(merged)
			return CompositionResult{Image: trimmed, Width: trimmed.Bounds().Dx(), Height: trimmed.Bounds().Dy()}
		}
		// Degenerate transform: fall back to the flat render.
	}

	draw.Draw(background, p.rect, content, image.Point{}, draw.Over)
	return CompositionResult{Image: background, Width: background.Bounds().Dx(), Height: background.Bounds().Dy()}
}

// compositeTilted lays the canvas background into a buffer expanded by the
// warp's growth margin, then centers the tilted content over the original
// placement rectangle. The expansion keeps the rotated silhouette intact;
// the trimmer crops it back down.
func compositeTilted(background, shadowed *image.RGBA, p placement) *image.RGBA {
	growX := shadowed.Bounds().Dx() - p.rect.Dx()
	growY := shadowed.Bounds().Dy() - p.rect.Dy()
	if growX < 0 {
		growX = 0
	}
	if growY < 0 {
		growY = 0
	}

	canvasB := background.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, canvasB.Dx()+growX, canvasB.Dy()+growY))
	offset := image.Pt(growX/2, growY/2)
	draw.Draw(out, canvasB.Add(offset), background, canvasB.Min, draw.Src)

	center := image.Pt(
		(p.rect.Min.X+p.rect.Max.X)/2+offset.X,
		(p.rect.Min.Y+p.rect.Max.Y)/2+offset.Y,
	)
	target := shadowed.Bounds().Sub(shadowed.Bounds().Min).Add(image.Pt(
		center.X-shadowed.Bounds().Dx()/2,
		center.Y-shadowed.Bounds().Dy()/2,
	))
	draw.Draw(out, target, shadowed, shadowed.Bounds().Min, draw.Over)
	return out
}
