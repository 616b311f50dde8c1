package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
)

type stdlibEncoder struct{}

func (e stdlibEncoder) Encode(ctx context.Context, img image.Image, opts Options) (*Output, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("encode requires a non-empty image")
	}

	switch opts.Format {
	case FormatPNG, "":
		data, err := encodePNG(img)
		if err != nil {
			return nil, err
		}
		if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
			data, err = encodeJPEG(img, fallbackQuality)
			if err != nil {
				return nil, err
			}
			return &Output{Data: data, Format: FormatJPEG}, nil
		}
		return &Output{Data: data, Format: FormatPNG}, nil
	case FormatJPEG:
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = fallbackQuality
		}
		data, err := encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		return &Output{Data: data, Format: FormatJPEG}, nil
	case FormatWebP:
		return nil, errors.New("webp export requires govips build tag")
	default:
		return nil, fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattenOnWhite(img), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// flattenOnWhite composites the image over an opaque white background.
// JPEG has no alpha channel, so transparent regions become white rather
// than the black the encoder would otherwise produce.
func flattenOnWhite(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)
	return dst
}
