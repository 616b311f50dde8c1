package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/snapstage/snapstage/internal/domain"
	"github.com/snapstage/snapstage/internal/export"
)

func BenchmarkProcessorFlatCompose(b *testing.B) {
	source := benchmarkPNG(b, 1920, 1080)
	processor, err := NewLocalProcessor(b.TempDir())
	if err != nil {
		b.Fatalf("new local processor: %v", err)
	}
	processor.fetcher = staticFetcher{data: source}
	processor.emitter = discardEmitter{}

	req := Request{
		JobID:      "bench",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  "ignored.png",
		Steps: []domain.RenderStep{
			{
				ID:             "social_wide",
				Ratio:          "16:9",
				PaddingPercent: 10,
				CornerRadius:   20,
				Background:     &domain.BackgroundSpec{Kind: "solid", Color: "#0f172a"},
				Quality:        "preview",
				Format:         "jpeg",
			},
		},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req.JobID = fmt.Sprintf("bench-flat-%d", i)
		if _, err := processor.Process(context.Background(), req); err != nil {
			b.Fatalf("process: %v", err)
		}
	}
}

func BenchmarkProcessorPerspectiveCompose(b *testing.B) {
	source := benchmarkPNG(b, 1920, 1080)
	processor, err := NewLocalProcessor(b.TempDir())
	if err != nil {
		b.Fatalf("new local processor: %v", err)
	}
	processor.fetcher = staticFetcher{data: source}
	processor.emitter = discardEmitter{}

	req := Request{
		JobID:      "bench",
		SourceType: SourceTypeLocalFile,
		ObjectKey:  "ignored.png",
		Steps: []domain.RenderStep{
			{
				ID:             "hero_tilt",
				Ratio:          "16:9",
				PaddingPercent: 12,
				Perspective:    &domain.PerspectiveSpec{Direction: "bottom-right"},
				Quality:        "preview",
			},
		},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req.JobID = fmt.Sprintf("bench-tilt-%d", i)
		if _, err := processor.Process(context.Background(), req); err != nil {
			b.Fatalf("process: %v", err)
		}
	}
}

type staticFetcher struct {
	data []byte
}

func (f staticFetcher) Fetch(_ context.Context, _ Request) ([]byte, error) {
	return f.data, nil
}

type discardEmitter struct{}

func (discardEmitter) Emit(_ context.Context, _ Request, step domain.RenderStep, data []byte, format export.Format, width, height int) (Output, error) {
	return Output{
		StepID:  step.ID,
		Format:  string(format),
		Path:    "",
		Bytes:   len(data),
		Width:   width,
		Height:  height,
		Success: true,
	}, nil
}

func benchmarkPNG(b *testing.B, w, h int) []byte {
	b.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 140,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		b.Fatalf("encode source png: %v", err)
	}
	return buf.Bytes()
}
