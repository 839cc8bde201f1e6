package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Rasterizer renders the first page of a PDF to an image the Engine accepts.
type Rasterizer interface {
	RasterizeFirstPage(ctx context.Context, doc []byte) ([]byte, error)
}

// Engine recognises text fragments in a page image.
type Engine interface {
	Recognize(ctx context.Context, img []byte) ([]string, error)
}

// RasterOCR is the slow path: rasterise page one, recognise, join fragments with newlines.
// The engine is owned by the caller and shared; recognition calls are serialised.
type RasterOCR struct {
	raster Rasterizer
	engine Engine
	logger *slog.Logger

	mu sync.Mutex
}

func NewRasterOCR(raster Rasterizer, engine Engine, logger *slog.Logger) *RasterOCR {
	if logger == nil {
		logger = slog.Default()
	}
	return &RasterOCR{raster: raster, engine: engine, logger: logger}
}

func (o *RasterOCR) Extract(ctx context.Context, doc []byte) (string, error) {
	if o.raster == nil || o.engine == nil {
		return "", failure(StageRecognize, ErrEngineUnavailable)
	}
	if len(doc) == 0 {
		return "", failure(StageRasterize, ErrEmptyDocument)
	}

	img, err := o.raster.RasterizeFirstPage(ctx, doc)
	if err != nil {
		return "", failure(StageRasterize, err)
	}
	if len(img) == 0 {
		return "", failure(StageRasterize, ErrNoPage)
	}

	frags, err := o.recognize(ctx, img)
	if err != nil {
		return "", failure(StageRecognize, err)
	}
	o.logger.Debug("ocr fragments recognised", "fragments", len(frags), "image_bytes", len(img))
	return strings.Join(frags, "\n"), nil
}

func (o *RasterOCR) recognize(ctx context.Context, img []byte) (frags []string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			frags, err = nil, fmt.Errorf("engine panic: %v", r)
		}
	}()
	return o.engine.Recognize(ctx, img)
}
