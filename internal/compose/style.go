package compose

import "image/color"

// Style bounds. Padding is a fraction of each canvas dimension reserved on
// both sides; at 0.5 the content rectangle collapses to zero area.
const (
	MaxPaddingFraction = 0.5
	MaxCornerRadius    = 50.0
)

// Direction selects which way perspective-tilted content leans.
type Direction int

const (
	DirectionTopLeft Direction = iota
	DirectionTop
	DirectionTopRight
	DirectionBottomLeft
	DirectionBottom
	DirectionBottomRight
)

func (d Direction) String() string {
	switch d {
	case DirectionTopLeft:
		return "top-left"
	case DirectionTop:
		return "top"
	case DirectionTopRight:
		return "top-right"
	case DirectionBottomLeft:
		return "bottom-left"
	case DirectionBottom:
		return "bottom"
	case DirectionBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// ParseDirection maps a wire-level direction name to a Direction.
func ParseDirection(name string) (Direction, bool) {
	switch name {
	case "top-left":
		return DirectionTopLeft, true
	case "top":
		return DirectionTop, true
	case "top-right":
		return DirectionTopRight, true
	case "bottom-left":
		return DirectionBottomLeft, true
	case "bottom":
		return DirectionBottom, true
	case "bottom-right":
		return DirectionBottomRight, true
	default:
		return 0, false
	}
}

// Style is the immutable per-render configuration. Callers construct a value,
// optionally attach annotations or a device frame, and pass it to Compose;
// UI-driven changes build a new Style rather than mutating a shared one.
type Style struct {
	// Padding is the fraction of each canvas dimension left empty on each
	// side, clamped to [0, MaxPaddingFraction].
	Padding float64

	// CornerRadius rounds the content rectangle's corners, in pixels,
	// clamped to [0, MaxCornerRadius] and never more than half the shorter
	// placement dimension.
	CornerRadius float64

	Background Background

	Perspective bool
	Direction   Direction

	// DeviceFrame, when set, composites the content into the frame's screen
	// areas instead of a plain rectangle.
	DeviceFrame *DeviceFrame

	// Annotations are drawn over the placed content, in order.
	Annotations []Element
}

// Clamped returns a copy of the style with all numeric fields forced into
// their documented ranges. Compose applies this itself; it is exported so
// callers can observe the effective values.
func (s Style) Clamped() Style {
	if s.Padding < 0 {
		s.Padding = 0
	}
	if s.Padding > MaxPaddingFraction {
		s.Padding = MaxPaddingFraction
	}
	if s.CornerRadius < 0 {
		s.CornerRadius = 0
	}
	if s.CornerRadius > MaxCornerRadius {
		s.CornerRadius = MaxCornerRadius
	}
	if len(s.Background.Stops) > 0 {
		stops := make([]GradientStop, len(s.Background.Stops))
		copy(stops, s.Background.Stops)
		for i := range stops {
			if stops[i].Pos < 0 {
				stops[i].Pos = 0
			}
			if stops[i].Pos > 1 {
				stops[i].Pos = 1
			}
		}
		s.Background.Stops = stops
	}
	return s
}

// shadowOffset returns the drop-shadow displacement for a direction. The
// horizontal sign follows the Y-axis rotation sign (zero for straight tilts);
// top directions cast downward, bottom directions upward.
func (d Direction) shadowOffset() (dx, dy int) {
	switch d {
	case DirectionTopLeft:
		return -shadowDistance, shadowDistance
	case DirectionTop:
		return 0, shadowDistance
	case DirectionTopRight:
		return shadowDistance, shadowDistance
	case DirectionBottomLeft:
		return -shadowDistance, -shadowDistance
	case DirectionBottom:
		return 0, -shadowDistance
	case DirectionBottomRight:
		return shadowDistance, -shadowDistance
	default:
		return 0, 0
	}
}

// tiltSigns returns the rotation-axis signs for a direction: sx multiplies
// the X-axis (pitch) angle, sy the Y-axis (yaw) angle. sy is zero for the
// straight top/bottom tilts.
func (d Direction) tiltSigns() (sx, sy float64) {
	switch d {
	case DirectionTopLeft:
		return 1, -1
	case DirectionTop:
		return 1, 0
	case DirectionTopRight:
		return 1, 1
	case DirectionBottomLeft:
		return -1, -1
	case DirectionBottom:
		return -1, 0
	case DirectionBottomRight:
		return -1, 1
	default:
		return 0, 0
	}
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
