package compose

import "math"

// ratioPreset is one of the fixed aspect ratios a canvas can resolve to.
type ratioPreset struct {
	name  string
	value float64
}

// Presets are ordered landscape-first so that equal-distance ties resolve
// toward the orientation of the source.
var landscapePresets = []ratioPreset{
	{"1:1", 1},
	{"16:9", 16.0 / 9.0},
	{"4:3", 4.0 / 3.0},
	{"3:2", 3.0 / 2.0},
}

var portraitPresets = []ratioPreset{
	{"1:1", 1},
	{"9:16", 9.0 / 16.0},
	{"3:4", 3.0 / 4.0},
	{"2:3", 2.0 / 3.0},
}

var allPresets = combinePresets(landscapePresets, portraitPresets)

func combinePresets(groups ...[]ratioPreset) []ratioPreset {
	var combined []ratioPreset
	for _, g := range groups {
		combined = append(combined, g...)
	}
	return combined
}

// ratioDetectTolerance is the absolute difference inside which a source
// ratio snaps to the first matching preset.
const ratioDetectTolerance = 0.1

// ResolveRatio maps a named ratio to its numeric width:height value.
// The name "auto" (or "") detects from the source dimensions. The result is
// always positive; unknown names report ok=false.
func ResolveRatio(name string, srcWidth, srcHeight int) (float64, bool) {
	switch name {
	case "auto", "":
		return DetectRatio(srcWidth, srcHeight), true
	}
	for _, p := range allPresets {
		if p.name == name {
			return p.value, true
		}
	}
	return 0, false
}

// RatioNames lists every accepted ratio name, "auto" first.
func RatioNames() []string {
	names := []string{"auto"}
	seen := map[string]bool{}
	for _, p := range allPresets {
		if !seen[p.name] {
			seen[p.name] = true
			names = append(names, p.name)
		}
	}
	return names
}

// DetectRatio picks the preset nearest to srcWidth/srcHeight. Presets of the
// source's own orientation win when one lies within the snap tolerance, so a
// near-tie between a landscape and a portrait preset resolves toward the
// source orientation. Degenerate dimensions fall back to square. There is no
// error path: some preset always wins, even outside the tolerance.
func DetectRatio(srcWidth, srcHeight int) float64 {
	if srcWidth <= 0 || srcHeight <= 0 {
		return 1
	}
	ratio := float64(srcWidth) / float64(srcHeight)

	oriented := portraitPresets
	if ratio > 1 {
		oriented = landscapePresets
	}
	if best, diff := nearestPreset(ratio, oriented); diff <= ratioDetectTolerance {
		return best.value
	}

	best, _ := nearestPreset(ratio, allPresets)
	return best.value
}

func nearestPreset(ratio float64, presets []ratioPreset) (ratioPreset, float64) {
	best := presets[0]
	bestDiff := math.Abs(ratio - best.value)
	for _, p := range presets[1:] {
		if diff := math.Abs(ratio - p.value); diff < bestDiff {
			best, bestDiff = p, diff
		}
	}
	return best, bestDiff
}
