package storage

import (
	"fmt"
	"path"
	"strings"
)

// DefaultRenderPrefix is where rendered outputs land when no prefix is
// configured.
const DefaultRenderPrefix = "renders"

// SourceObjectKey names the uploaded capture for a job:
// uploads/<job>/source.
func SourceObjectKey(jobID string) string {
	return path.Join("uploads", sanitizeKeyToken(jobID), "source")
}

// RenderObjectKey names one rendered output:
// <prefix>/<job>/<step>.<ext>.
func RenderObjectKey(prefix, jobID, stepID, ext string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultRenderPrefix
	}
	return path.Join(prefix, sanitizeKeyToken(jobID), fmt.Sprintf("%s.%s", sanitizeKeyToken(stepID), ext))
}

// sanitizeKeyToken keeps object keys flat: anything outside
// [a-zA-Z0-9_-] becomes an underscore so a step id cannot introduce
// path separators.
func sanitizeKeyToken(in string) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return "unknown"
	}

	var b strings.Builder
	b.Grow(len(in))
	for _, r := range in {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
