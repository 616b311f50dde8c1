// Command snapstage renders a beautified screenshot locally, without
// the queue or object storage. It drives the same render pipeline the
// worker uses.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/snapstage/snapstage/internal/domain"
	"github.com/snapstage/snapstage/internal/export"
	"github.com/snapstage/snapstage/internal/pipeline"
)

func main() {
	var (
		input     = flag.String("in", "", "path to the source screenshot (required)")
		outputDir = flag.String("out", ".", "directory for rendered outputs")
		stepID    = flag.String("id", "render", "output name for the render step")
		ratio     = flag.String("ratio", "auto", "canvas aspect ratio (auto, 16:9, 4:3, 3:2, 1:1, 9:16, 3:4, 2:3)")
		padding   = flag.Float64("padding", 10, "padding as percent of each canvas dimension (0-50)")
		radius    = flag.Float64("radius", 0, "content corner radius in pixels (0-50)")
		bgColor   = flag.String("bg", "", "solid background color, e.g. #1e293b")
		bgImage   = flag.String("bg-image", "", "path to a background image (cover-filled)")
		tilt      = flag.String("tilt", "", "3D tilt direction (top-left, top, top-right, bottom-left, bottom, bottom-right)")
		quality   = flag.String("quality", "export", "quality tier (preview or export)")
		format    = flag.String("format", "png", "output format (png, jpeg, webp)")
		maxBytes  = flag.Int64("max-bytes", 0, "optional byte budget; oversized PNG falls back to JPEG")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[snapstage] ", log.LstdFlags|log.Lmsgprefix)

	if strings.TrimSpace(*input) == "" {
		flag.Usage()
		logger.Fatal("-in is required")
	}

	if err := export.Startup(); err != nil {
		logger.Fatalf("encoder startup failed: %v", err)
	}
	defer export.Shutdown()

	step := domain.RenderStep{
		ID:             *stepID,
		Ratio:          *ratio,
		PaddingPercent: *padding,
		CornerRadius:   *radius,
		Quality:        *quality,
		Format:         *format,
		MaxBytes:       *maxBytes,
	}
	switch {
	case strings.TrimSpace(*bgImage) != "":
		step.Background = &domain.BackgroundSpec{Kind: "image", ObjectKey: *bgImage}
	case strings.TrimSpace(*bgColor) != "":
		step.Background = &domain.BackgroundSpec{Kind: "solid", Color: *bgColor}
	}
	if strings.TrimSpace(*tilt) != "" {
		step.Perspective = &domain.PerspectiveSpec{Direction: *tilt}
	}

	if err := step.Validate(); err != nil {
		logger.Fatalf("invalid render settings: %v", err)
	}

	processor, err := pipeline.NewLocalProcessor(*outputDir)
	if err != nil {
		logger.Fatalf("pipeline setup failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	started := time.Now()
	result, err := processor.Process(ctx, pipeline.Request{
		JobID:      "local",
		SourceType: pipeline.SourceTypeLocalFile,
		ObjectKey:  *input,
		Steps:      []domain.RenderStep{step},
	})
	if err != nil {
		logger.Fatalf("render failed: %v", err)
	}

	for _, out := range result.Outputs {
		logger.Printf(
			"wrote %s format=%s size=%dx%d bytes=%d elapsed=%s",
			out.Path,
			out.Format,
			out.Width,
			out.Height,
			out.Bytes,
			time.Since(started).Round(time.Millisecond),
		)
	}
}
