package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snapstage/snapstage/internal/domain"
	"github.com/snapstage/snapstage/internal/export"
)

const SourceTypeLocalFile = "local_file"

var ErrUnsupportedSourceType = errors.New("unsupported source_type")

type Request struct {
	JobID      string
	SourceType string
	ObjectKey  string
	Steps      []domain.RenderStep
}

type Output struct {
	StepID  string
	Format  string
	Path    string
	Bytes   int
	Width   int
	Height  int
	Success bool
}

type Result struct {
	Outputs     []Output
	SourceBytes int
}

// PixelsComposed sums the output raster sizes, the unit usage is
// metered in.
func (r Result) PixelsComposed() int64 {
	var total int64
	for _, out := range r.Outputs {
		total += int64(out.Width) * int64(out.Height)
	}
	return total
}

// BytesWritten sums the encoded output sizes.
func (r Result) BytesWritten() int64 {
	var total int64
	for _, out := range r.Outputs {
		total += int64(out.Bytes)
	}
	return total
}

// Fetcher retrieves the job's source capture.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// AssetFetcher retrieves secondary objects a render step references:
// background images and device frame rasters.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, objectKey string) ([]byte, error)
}

type Emitter interface {
	Emit(ctx context.Context, req Request, step domain.RenderStep, data []byte, format export.Format, width, height int) (Output, error)
}

type Processor struct {
	fetcher Fetcher
	assets  AssetFetcher
	encoder export.Encoder
	emitter Emitter
}

func NewLocalProcessor(outputDir string) (*Processor, error) {
	encoder, err := export.NewEncoder()
	if err != nil {
		return nil, fmt.Errorf("build encoder: %w", err)
	}

	return &Processor{
		fetcher: LocalFileFetcher{},
		assets:  LocalFileFetcher{},
		encoder: encoder,
		emitter: LocalFileEmitter{OutputDir: outputDir},
	}, nil
}

func NewObjectStoreProcessor(fetcher ObjectStoreFetcher, emitter ObjectStoreEmitter) (*Processor, error) {
	encoder, err := export.NewEncoder()
	if err != nil {
		return nil, fmt.Errorf("build encoder: %w", err)
	}

	return &Processor{
		fetcher: fetcher,
		assets:  fetcher,
		encoder: encoder,
		emitter: emitter,
	}, nil
}

func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.JobID) == "" {
		return Result{}, errors.New("job_id is required")
	}
	if len(req.Steps) == 0 {
		return Result{}, errors.New("steps must contain at least one render step")
	}

	sourceBytes, err := p.fetcher.Fetch(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch stage: %w", err)
	}
	src, err := decodeImage(sourceBytes)
	if err != nil {
		return Result{}, fmt.Errorf("decode source image: %w", err)
	}

	out := Result{
		Outputs:     make([]Output, 0, len(req.Steps)),
		SourceBytes: len(sourceBytes),
	}
	for _, step := range req.Steps {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		encoded, width, height, err := p.renderStep(ctx, src, step)
		if err != nil {
			return Result{}, fmt.Errorf("compose stage step=%s: %w", step.ID, err)
		}

		written, err := p.emitter.Emit(ctx, req, step, encoded.Data, encoded.Format, width, height)
		if err != nil {
			return Result{}, fmt.Errorf("emit stage step=%s: %w", step.ID, err)
		}
		out.Outputs = append(out.Outputs, written)
	}

	return out, nil
}

type LocalFileFetcher struct{}

func (LocalFileFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if !strings.EqualFold(req.SourceType, SourceTypeLocalFile) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSourceType, req.SourceType)
	}
	return LocalFileFetcher{}.FetchAsset(ctx, req.ObjectKey)
}

func (LocalFileFetcher) FetchAsset(ctx context.Context, objectKey string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(objectKey)
	if err != nil {
		return nil, fmt.Errorf("read input file %s: %w", objectKey, err)
	}
	return data, nil
}

type LocalFileEmitter struct {
	OutputDir string
}

func (e LocalFileEmitter) Emit(_ context.Context, req Request, step domain.RenderStep, data []byte, format export.Format, width, height int) (Output, error) {
	if strings.TrimSpace(e.OutputDir) == "" {
		return Output{}, errors.New("output directory is required")
	}
	if strings.TrimSpace(step.ID) == "" {
		return Output{}, errors.New("render step id is required")
	}

	jobDir := filepath.Join(e.OutputDir, sanitizePathToken(req.JobID))
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return Output{}, fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", sanitizePathToken(step.ID), format)
	fullPath := filepath.Join(jobDir, filename)
	if err := export.WriteFile(fullPath, data); err != nil {
		return Output{}, fmt.Errorf("write output file: %w", err)
	}

	return Output{
		StepID:  step.ID,
		Format:  string(format),
		Path:    fullPath,
		Bytes:   len(data),
		Width:   width,
		Height:  height,
		Success: true,
	}, nil
}

func sanitizePathToken(in string) string {
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
