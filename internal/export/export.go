// Package export encodes composed images and writes them to disk.
package export

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// ParseFormat normalizes a user-supplied format name. An empty string
// selects PNG, the lossless default.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
}

// ContentType reports the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// Options controls a single encode.
type Options struct {
	Format  Format
	Quality int // lossy quality 1..100, 0 selects the default

	// MaxBytes is an optional byte budget. When the lossless encoding
	// exceeds it, the image is re-encoded once as JPEG and that result
	// is returned regardless of its size. Zero disables the budget.
	MaxBytes int64
}

// Output is the result of an encode.
type Output struct {
	Data   []byte
	Format Format
}

// Encoder turns a composed image into encoded bytes.
type Encoder interface {
	Encode(ctx context.Context, img image.Image, opts Options) (*Output, error)
}

// NewEncoder returns the best encoder available in this build. With the
// govips build tag and cgo it is backed by libvips, otherwise by the
// standard library image codecs.
func NewEncoder() (Encoder, error) {
	return newEncoder()
}

// fallbackQuality is the fixed JPEG quality used when a byte budget
// forces a lossy re-encode.
const fallbackQuality = 80

// WriteFile writes data to path atomically: a temp file in the
// destination directory, then a rename over the final name.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapstage-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
