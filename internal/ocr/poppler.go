package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// pdfUserSpaceDPI is the resolution a scale factor of 1 corresponds to.
const pdfUserSpaceDPI = 72

type RasterConfig struct {
	Pdftoppm string  // binary name or absolute path; if empty -> "pdftoppm"
	Scale    float64 // upscaling factor over 72 DPI; default 2.0
}

// PdftoppmRasterizer renders the first page of a PDF to PNG with poppler.
type PdftoppmRasterizer struct {
	cfg    RasterConfig
	runner Runner
	logger *slog.Logger
}

func NewPdftoppmRasterizer(cfg RasterConfig, runner Runner, logger *slog.Logger) *PdftoppmRasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 2.0
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &PdftoppmRasterizer{cfg: cfg, runner: runner, logger: logger}
}

// DPI is the render resolution derived from the configured scale.
func (r *PdftoppmRasterizer) DPI() int {
	return int(math.Round(pdfUserSpaceDPI * r.cfg.Scale))
}

func (r *PdftoppmRasterizer) RasterizeFirstPage(ctx context.Context, doc []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "fl-pp-*")
	if err != nil {
		return nil, err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			r.logger.Warn("failed to remove temp dir", "path", path, "error", err)
		}
	}(tmpDir)

	in := filepath.Join(tmpDir, "document.pdf")
	if err := os.WriteFile(in, doc, 0o600); err != nil {
		return nil, err
	}
	prefix := filepath.Join(tmpDir, "page")

	// pdftoppm -f 1 -l 1 -r <dpi> -png -singlefile <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-f", "1", "-l", "1",
		"-r", strconv.Itoa(r.DPI()),
		"-png", "-singlefile",
		in, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	img, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPage, err)
	}
	return img, nil
}
