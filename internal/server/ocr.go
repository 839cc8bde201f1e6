package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/ocr"
)

// NewPipeline builds the extraction pipeline once per process. A missing
// tesseract binary is logged, not fatal: text-layer extraction still works.
func NewPipeline(ctx context.Context, cfg common.OCRConfig, logger *slog.Logger) *ocr.Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	runner := ocr.NewExecRunner(logger)
	raster := ocr.NewPdftoppmRasterizer(ocr.RasterConfig{
		Pdftoppm: cfg.Pdftoppm,
		Scale:    cfg.Scale,
	}, runner, logger)
	engine := ocr.NewTesseractEngine(ocr.EngineConfig{
		Tesseract:   cfg.Tesseract,
		Lang:        cfg.Lang,
		TessdataDir: cfg.TessdataDir,
	}, runner, logger)

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := engine.Probe(probeCtx); err != nil {
		logger.Warn("ocr engine unavailable; scanned documents will yield empty transcripts", "error", err)
	}

	return ocr.NewPipeline(
		ocr.NewTextExtractor(logger),
		ocr.NewRasterOCR(raster, engine, logger),
		logger,
		ocr.WithOCRTimeout(cfg.Timeout),
	)
}
