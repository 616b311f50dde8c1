package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/snapstage/snapstage/internal/compose"
	"github.com/snapstage/snapstage/internal/domain"
	"github.com/snapstage/snapstage/internal/export"
)

// renderStep composes one beautified output and encodes it. Validation
// happened at submit time, so parse failures here fall back to defaults
// rather than erroring.
func (p *Processor) renderStep(ctx context.Context, src image.Image, step domain.RenderStep) (*export.Output, int, int, error) {
	style, err := p.styleFromStep(ctx, step)
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := src.Bounds()
	ratio, ok := compose.ResolveRatio(step.Ratio, bounds.Dx(), bounds.Dy())
	if !ok {
		return nil, 0, 0, fmt.Errorf("unknown ratio: %q", step.Ratio)
	}
	tier, _ := compose.ParseQualityTier(step.Quality)
	canvas := compose.NewCanvasSpec(ratio, tier)

	result := compose.Compose(src, canvas, style)

	format, err := export.ParseFormat(step.Format)
	if err != nil {
		return nil, 0, 0, err
	}
	encoded, err := p.encoder.Encode(ctx, result.Image, export.Options{
		Format:   format,
		MaxBytes: step.MaxBytes,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return encoded, result.Width, result.Height, nil
}

// styleFromStep maps the wire-level step onto a compose.Style, pulling
// referenced assets through the asset fetcher.
func (p *Processor) styleFromStep(ctx context.Context, step domain.RenderStep) (compose.Style, error) {
	style := compose.Style{
		Padding:      step.PaddingPercent / 100,
		CornerRadius: step.CornerRadius,
	}

	if step.Background != nil {
		bg, err := p.backgroundFromSpec(ctx, *step.Background)
		if err != nil {
			return compose.Style{}, fmt.Errorf("background: %w", err)
		}
		style.Background = bg
	}

	if step.Perspective != nil {
		dir, ok := compose.ParseDirection(step.Perspective.Direction)
		if !ok {
			return compose.Style{}, fmt.Errorf("unknown perspective direction: %q", step.Perspective.Direction)
		}
		style.Perspective = true
		style.Direction = dir
	}

	if step.DeviceFrame != nil {
		frame, err := p.deviceFrameFromSpec(ctx, *step.DeviceFrame)
		if err != nil {
			return compose.Style{}, fmt.Errorf("device frame: %w", err)
		}
		style.DeviceFrame = frame
	}

	for _, spec := range step.Annotations {
		style.Annotations = append(style.Annotations, elementFromSpec(spec))
	}

	return style, nil
}

func (p *Processor) backgroundFromSpec(ctx context.Context, spec domain.BackgroundSpec) (compose.Background, error) {
	kind, ok := compose.ParseBackgroundKind(spec.Kind)
	if !ok {
		return compose.Background{}, fmt.Errorf("unknown kind: %q", spec.Kind)
	}

	bg := compose.Background{Kind: kind}
	switch kind {
	case compose.BackgroundSolid:
		bg.Color = compose.HexColorOrWhite(spec.Color)
	case compose.BackgroundGradient:
		for _, stop := range spec.Stops {
			bg.Stops = append(bg.Stops, compose.GradientStop{
				Color: compose.HexColorOrWhite(stop.Color),
				Pos:   stop.Position,
			})
		}
	case compose.BackgroundImage:
		img, err := p.fetchAssetImage(ctx, spec.ObjectKey)
		if err != nil {
			return compose.Background{}, err
		}
		bg.Image = img
	}
	return bg, nil
}

func (p *Processor) deviceFrameFromSpec(ctx context.Context, spec domain.DeviceFrameSpec) (*compose.DeviceFrame, error) {
	frame, err := p.fetchAssetImage(ctx, spec.FrameObjectKey)
	if err != nil {
		return nil, err
	}

	df := &compose.DeviceFrame{Frame: frame}
	for _, sc := range spec.Screens {
		df.Screens = append(df.Screens, compose.ScreenArea{X: sc.X, Y: sc.Y, W: sc.W, H: sc.H})
	}
	return df, nil
}

func (p *Processor) fetchAssetImage(ctx context.Context, objectKey string) (image.Image, error) {
	if p.assets == nil {
		return nil, fmt.Errorf("no asset fetcher configured for object %s", objectKey)
	}
	data, err := p.assets.FetchAsset(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", objectKey, err)
	}
	return img, nil
}

func elementFromSpec(spec domain.AnnotationSpec) compose.Element {
	// A zero color lets each element apply its own default.
	var c color.RGBA
	if spec.Color != "" {
		c, _ = compose.ParseHexColor(spec.Color)
	}
	// Validation lowercases the kind before checking it, so render must too.
	switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
	case domain.AnnotationArrow:
		return compose.ArrowElement{
			From:  image.Pt(int(spec.X), int(spec.Y)),
			To:    image.Pt(int(spec.ToX), int(spec.ToY)),
			Width: spec.Width,
			Color: c,
		}
	case domain.AnnotationHighlight:
		return compose.HighlightElement{
			Rect:  image.Rect(int(spec.X), int(spec.Y), int(spec.X+spec.W), int(spec.Y+spec.H)),
			Color: c,
		}
	default:
		return compose.TextElement{
			Pos:   image.Pt(int(spec.X), int(spec.Y)),
			Text:  spec.Text,
			Color: c,
		}
	}
}

// decodeImage decodes a capture or asset, honoring EXIF orientation so
// phone screenshots arrive upright.
func decodeImage(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}
