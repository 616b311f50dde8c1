//go:build govips && cgo

package export

import (
	"context"
	"fmt"
	"image"

	"github.com/davidbyttow/govips/v2/vips"
)

type govipsEncoder struct{}

func (e govipsEncoder) Encode(ctx context.Context, img image.Image, opts Options) (*Output, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// libvips ingests encoded buffers, so the in-memory image goes
	// through a lossless PNG pass first.
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	ref, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("load image into vips: %w", err)
	}
	defer ref.Close()

	switch opts.Format {
	case FormatPNG, "":
		out, err := exportGovipsPNG(ref)
		if err != nil {
			return nil, err
		}
		if opts.MaxBytes > 0 && int64(len(out)) > opts.MaxBytes {
			out, err = exportGovipsJPEG(ref, fallbackQuality)
			if err != nil {
				return nil, err
			}
			return &Output{Data: out, Format: FormatJPEG}, nil
		}
		return &Output{Data: out, Format: FormatPNG}, nil
	case FormatJPEG:
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = fallbackQuality
		}
		out, err := exportGovipsJPEG(ref, quality)
		if err != nil {
			return nil, err
		}
		return &Output{Data: out, Format: FormatJPEG}, nil
	case FormatWebP:
		params := vips.NewWebpExportParams()
		if opts.Quality > 0 && opts.Quality <= 100 {
			params.Quality = opts.Quality
		}
		out, _, err := ref.ExportWebp(params)
		if err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
		return &Output{Data: out, Format: FormatWebP}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

func exportGovipsPNG(ref *vips.ImageRef) ([]byte, error) {
	data, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return data, nil
}

func exportGovipsJPEG(ref *vips.ImageRef, quality int) ([]byte, error) {
	if err := ref.Flatten(&vips.Color{R: 255, G: 255, B: 255}); err != nil {
		return nil, fmt.Errorf("flatten alpha: %w", err)
	}
	params := vips.NewJpegExportParams()
	params.Quality = quality
	data, _, err := ref.ExportJpeg(params)
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return data, nil
}
