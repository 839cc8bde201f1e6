package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var reBoxNoise = regexp.MustCompile(`^[_\-=|.]{3,}$`)

type EngineConfig struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
}

// TesseractEngine recognises text in a page image with the tesseract CLI.
// It holds no per-call state; callers still serialise Recognize through RasterOCR.
type TesseractEngine struct {
	cfg    EngineConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseractEngine(cfg EngineConfig, runner Runner, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if runner == nil {
		runner = NewExecRunner(logger)
	}
	return &TesseractEngine{cfg: cfg, runner: runner, logger: logger}
}

// Probe checks that the binary can be executed.
func (e *TesseractEngine) Probe(ctx context.Context) error {
	if _, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version"); err != nil {
		return fmt.Errorf("%w: %v (%s)", ErrEngineUnavailable, err, truncate(string(errb), 256))
	}
	return nil
}

// Recognize returns the detected text fragments in reading order.
func (e *TesseractEngine) Recognize(ctx context.Context, img []byte) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "fl-tess-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	path := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(path, img, 0o600); err != nil {
		return nil, err
	}

	// tesseract <file> stdout -l <lang>
	args := []string{path, "stdout", "-l", e.cfg.Lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return fragments(string(out)), nil
}

// fragments splits engine output into non-empty lines and drops box-drawing noise.
func fragments(out string) []string {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	var frags []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || reBoxNoise.MatchString(line) {
			continue
		}
		frags = append(frags, line)
	}
	return frags
}
