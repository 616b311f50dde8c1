package compose

import "math"

// QualityTier selects the base canvas resolution: previews render small and
// fast, exports at full size.
type QualityTier int

const (
	QualityPreview QualityTier = iota
	QualityExport
)

const (
	previewBasePixels = 1000
	exportBasePixels  = 2000
)

// ParseQualityTier maps a wire-level tier name to a QualityTier. The empty
// string means export quality.
func ParseQualityTier(name string) (QualityTier, bool) {
	switch name {
	case "preview":
		return QualityPreview, true
	case "export", "":
		return QualityExport, true
	default:
		return 0, false
	}
}

// CanvasSpec fixes the output surface: a positive width:height ratio and the
// integer pixel dimensions derived from it. Width/Height always satisfy the
// ratio within rounding.
type CanvasSpec struct {
	Ratio  float64
	Base   int
	Width  int
	Height int
}

// NewCanvasSpec derives canvas pixel dimensions from a resolved ratio and a
// quality tier. The longer dimension lands within one pixel of the tier's
// base resolution, so the canvas area stays bounded no matter how often
// specs are re-derived.
func NewCanvasSpec(ratio float64, tier QualityTier) CanvasSpec {
	base := previewBasePixels
	if tier == QualityExport {
		base = exportBasePixels
	}
	return newCanvasSpecWithBase(ratio, base)
}

func newCanvasSpecWithBase(ratio float64, base int) CanvasSpec {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 1
	}
	spec := CanvasSpec{Ratio: ratio, Base: base}
	spec.Width, spec.Height = fitDimensions(ratio, base)
	return spec
}

// fitDimensions picks integer dimensions whose quotient lands nearest the
// ratio, letting the long edge flex one pixel off the base. Rounding the
// short edge from a fixed long edge alone can drift the quotient past what
// downstream fidelity checks allow (16:9 at 1000 would give 1000x563).
func fitDimensions(ratio float64, base int) (int, int) {
	bestW, bestH := 1, 1
	bestDiff := math.Inf(1)
	for _, delta := range []int{0, -1, 1} {
		long := base + delta
		if long < 1 {
			continue
		}
		var w, h int
		if ratio >= 1 {
			w = long
			h = int(math.Round(float64(long) / ratio))
		} else {
			h = long
			w = int(math.Round(float64(long) * ratio))
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		if diff := math.Abs(float64(w)/float64(h) - ratio); diff < bestDiff {
			bestW, bestH, bestDiff = w, h, diff
		}
	}
	return bestW, bestH
}
