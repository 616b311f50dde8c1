package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snapstage/snapstage/internal/compose"
	"github.com/snapstage/snapstage/internal/export"
)

const (
	JobStatusCreated    = "created"
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusSucceeded  = "succeeded"
	JobStatusFailed     = "failed"

	SourceTypeLocalFile   = "local_file"
	SourceTypeS3Presigned = "s3_presigned"

	AnnotationText      = "text"
	AnnotationArrow     = "arrow"
	AnnotationHighlight = "highlight"

	// MaxDeviceScreens caps the screen cutouts a device frame may map
	// content into. Two covers the combined laptop-plus-phone presets.
	MaxDeviceScreens = 2
)

type CreateJobRequest struct {
	SourceType string       `json:"source_type"`
	WebhookURL string       `json:"webhook_url,omitempty"`
	ObjectKey  string       `json:"object_key,omitempty"`
	Steps      []RenderStep `json:"steps"`
}

// RenderStep describes one beautified output derived from the job's
// source capture. Padding and corner radius are clamped to their
// documented ranges at compose time rather than rejected here.
type RenderStep struct {
	ID             string           `json:"id"`
	Ratio          string           `json:"ratio,omitempty"`
	PaddingPercent float64          `json:"padding_percent,omitempty"`
	CornerRadius   float64          `json:"corner_radius,omitempty"`
	Background     *BackgroundSpec  `json:"background,omitempty"`
	Perspective    *PerspectiveSpec `json:"perspective,omitempty"`
	DeviceFrame    *DeviceFrameSpec `json:"device_frame,omitempty"`
	Annotations    []AnnotationSpec `json:"annotations,omitempty"`
	Quality        string           `json:"quality,omitempty"`
	Format         string           `json:"format,omitempty"`
	MaxBytes       int64            `json:"max_bytes,omitempty"`
}

type BackgroundSpec struct {
	Kind      string             `json:"kind"`
	Color     string             `json:"color,omitempty"`
	Stops     []GradientStopSpec `json:"stops,omitempty"`
	ObjectKey string             `json:"object_key,omitempty"`
}

type GradientStopSpec struct {
	Color    string  `json:"color"`
	Position float64 `json:"position"`
}

type PerspectiveSpec struct {
	Direction string `json:"direction"`
}

type DeviceFrameSpec struct {
	FrameObjectKey string           `json:"frame_object_key"`
	Screens        []ScreenAreaSpec `json:"screens"`
}

// ScreenAreaSpec locates a screen cutout within the frame raster, all
// fields normalized to 0..1.
type ScreenAreaSpec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// AnnotationSpec is a flat wire form covering all three annotation
// kinds. X/Y anchor text, span arrow tails, or place highlight rects;
// ToX/ToY is the arrow head; W/H size highlights; Width is the arrow
// stroke. Coordinates are content-buffer pixels.
type AnnotationSpec struct {
	Kind  string  `json:"kind"`
	Text  string  `json:"text,omitempty"`
	Color string  `json:"color,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	ToX   float64 `json:"to_x,omitempty"`
	ToY   float64 `json:"to_y,omitempty"`
	W     float64 `json:"w,omitempty"`
	H     float64 `json:"h,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type Job struct {
	ID         string
	UserID     string
	Status     string
	SourceType string
	WebhookURL string
	Steps      []RenderStep
	ObjectKey  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r CreateJobRequest) Validate() error {
	sourceType := strings.ToLower(strings.TrimSpace(r.SourceType))
	if sourceType == "" {
		return errors.New("source_type is required")
	}
	if sourceType != SourceTypeLocalFile && sourceType != SourceTypeS3Presigned {
		return fmt.Errorf("unsupported source_type: %s", r.SourceType)
	}
	if sourceType == SourceTypeLocalFile && strings.TrimSpace(r.ObjectKey) == "" {
		return errors.New("object_key is required for source_type=local_file")
	}
	if len(r.Steps) == 0 {
		return errors.New("steps must contain at least one render step")
	}
	for i, step := range r.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func (s RenderStep) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("id is required")
	}
	if _, ok := compose.ResolveRatio(s.Ratio, 1, 1); !ok {
		return fmt.Errorf("unknown ratio: %q", s.Ratio)
	}
	if _, ok := compose.ParseQualityTier(s.Quality); !ok {
		return fmt.Errorf("unknown quality tier: %q", s.Quality)
	}
	if _, err := export.ParseFormat(s.Format); err != nil {
		return err
	}
	if s.MaxBytes < 0 {
		return errors.New("max_bytes must not be negative")
	}
	if s.Background != nil {
		if err := s.Background.validate(); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	if s.Perspective != nil {
		if _, ok := compose.ParseDirection(s.Perspective.Direction); !ok {
			return fmt.Errorf("unknown perspective direction: %q", s.Perspective.Direction)
		}
	}
	if s.DeviceFrame != nil {
		if err := s.DeviceFrame.validate(); err != nil {
			return fmt.Errorf("device_frame: %w", err)
		}
	}
	for i, a := range s.Annotations {
		if err := a.validate(); err != nil {
			return fmt.Errorf("annotations[%d]: %w", i, err)
		}
	}
	return nil
}

func (b BackgroundSpec) validate() error {
	kind, ok := compose.ParseBackgroundKind(b.Kind)
	if !ok {
		return fmt.Errorf("unknown kind: %q", b.Kind)
	}
	switch kind {
	case compose.BackgroundSolid:
		if _, err := compose.ParseHexColor(b.Color); err != nil {
			return err
		}
	case compose.BackgroundGradient:
		if len(b.Stops) < 2 {
			return errors.New("gradient requires at least two stops")
		}
		for i, stop := range b.Stops {
			if _, err := compose.ParseHexColor(stop.Color); err != nil {
				return fmt.Errorf("stops[%d]: %w", i, err)
			}
			if stop.Position < 0 || stop.Position > 1 {
				return fmt.Errorf("stops[%d]: position %.3f outside [0,1]", i, stop.Position)
			}
		}
	case compose.BackgroundImage:
		if strings.TrimSpace(b.ObjectKey) == "" {
			return errors.New("image background requires object_key")
		}
	}
	return nil
}

func (d DeviceFrameSpec) validate() error {
	if strings.TrimSpace(d.FrameObjectKey) == "" {
		return errors.New("frame_object_key is required")
	}
	if len(d.Screens) == 0 {
		return errors.New("at least one screen area is required")
	}
	if len(d.Screens) > MaxDeviceScreens {
		return fmt.Errorf("at most %d screen areas are supported", MaxDeviceScreens)
	}
	for i, sc := range d.Screens {
		if sc.W <= 0 || sc.H <= 0 {
			return fmt.Errorf("screens[%d]: width and height must be positive", i)
		}
		if sc.X < 0 || sc.Y < 0 || sc.X+sc.W > 1 || sc.Y+sc.H > 1 {
			return fmt.Errorf("screens[%d]: area must lie inside the frame", i)
		}
	}
	return nil
}

func (a AnnotationSpec) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.Kind)) {
	case AnnotationText:
		if strings.TrimSpace(a.Text) == "" {
			return errors.New("text annotation requires text")
		}
	case AnnotationArrow, AnnotationHighlight:
	default:
		return fmt.Errorf("unknown annotation kind: %q", a.Kind)
	}
	if strings.TrimSpace(a.Color) != "" {
		if _, err := compose.ParseHexColor(a.Color); err != nil {
			return err
		}
	}
	return nil
}
