package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/snapstage/snapstage/internal/domain"
	"github.com/snapstage/snapstage/internal/export"
	"github.com/snapstage/snapstage/internal/storage"
)

const (
	SourceTypeS3Presigned = domain.SourceTypeS3Presigned
)

type ObjectStoreFetcher struct {
	Storage *storage.Client
}

func (f ObjectStoreFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if f.Storage == nil {
		return nil, errors.New("storage client is required")
	}
	if strings.EqualFold(req.SourceType, SourceTypeLocalFile) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSourceType, req.SourceType)
	}
	return f.Storage.ReadObject(ctx, req.ObjectKey)
}

// FetchAsset pulls background images and device frame rasters from the
// same bucket the captures live in.
func (f ObjectStoreFetcher) FetchAsset(ctx context.Context, objectKey string) ([]byte, error) {
	if f.Storage == nil {
		return nil, errors.New("storage client is required")
	}
	return f.Storage.ReadObject(ctx, objectKey)
}

type ObjectStoreEmitter struct {
	Storage      *storage.Client
	OutputPrefix string
}

func (e ObjectStoreEmitter) Emit(ctx context.Context, req Request, step domain.RenderStep, data []byte, format export.Format, width, height int) (Output, error) {
	if e.Storage == nil {
		return Output{}, errors.New("storage client is required")
	}
	if strings.TrimSpace(step.ID) == "" {
		return Output{}, errors.New("render step id is required")
	}

	objectKey := storage.RenderObjectKey(e.OutputPrefix, req.JobID, step.ID, string(format))

	if err := e.Storage.WriteObject(ctx, objectKey, data, format.ContentType()); err != nil {
		return Output{}, err
	}

	return Output{
		StepID:  step.ID,
		Format:  string(format),
		Path:    objectKey,
		Bytes:   len(data),
		Width:   width,
		Height:  height,
		Success: true,
	}, nil
}
