package compose

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// ScreenArea is a screen cutout of a device frame, in coordinates
// normalized to the frame raster (0..1).
type ScreenArea struct {
	X, Y, W, H float64
}

// DeviceFrame composites content into a decorative device raster instead of
// a plain rectangle. The frame image must have transparent screen cutouts;
// content is cover-filled beneath each screen area and the frame is drawn on
// top. Combined-device presets carry two screen areas.
type DeviceFrame struct {
	Frame   image.Image
	Screens []ScreenArea
}

// renderDeviceContent renders the frame plus screen-mapped content into a
// buffer of the placement size. The frame supplies its own silhouette, so
// corner-radius clipping does not apply here.
func renderDeviceContent(src image.Image, df *DeviceFrame, p placement) *image.RGBA {
	w, h := p.rect.Dx(), p.rect.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 || df == nil || df.Frame == nil {
		return out
	}

	for _, screen := range df.Screens {
		rect := image.Rect(
			int(math.Round(screen.X*float64(w))),
			int(math.Round(screen.Y*float64(h))),
			int(math.Round((screen.X+screen.W)*float64(w))),
			int(math.Round((screen.Y+screen.H)*float64(h))),
		).Intersect(out.Bounds())
		if rect.Empty() {
			continue
		}
		fill := imaging.Fill(src, rect.Dx(), rect.Dy(), imaging.Center, imaging.Lanczos)
		draw.Draw(out, rect, fill, image.Point{}, draw.Src)
	}

	xdraw.CatmullRom.Scale(out, out.Bounds(), df.Frame, df.Frame.Bounds(), xdraw.Over, nil)
	return out
}
