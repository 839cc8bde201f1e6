package ocr

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/facility-ledger/constants"
	"github.com/joseph-ayodele/facility-ledger/internal/common"
)

// Extractor turns PDF bytes into text. A non-nil error is an *ExtractionFailure.
type Extractor interface {
	Extract(ctx context.Context, doc []byte) (string, error)
}

// Result is the detailed outcome of a pipeline run.
type Result struct {
	Text       string
	Empty      bool
	Method     string // constants.MethodPDFText | MethodPDFOCR | MethodNone
	Duration   time.Duration
	Confidence float32
	Failures   []error
}

// Pipeline tries the embedded text layer first and falls back to OCR only when
// that yields nothing but whitespace. There is no third strategy.
type Pipeline struct {
	text       Extractor
	ocr        Extractor
	logger     *slog.Logger
	ocrTimeout time.Duration
}

type Option func(*Pipeline)

// WithOCRTimeout bounds the OCR fallback step; the fast path is never cut short.
func WithOCRTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.ocrTimeout = d
		}
	}
}

func NewPipeline(text, ocr Extractor, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{text: text, ocr: ocr, logger: logger}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run returns the transcript and whether it is empty. It never fails.
func (p *Pipeline) Run(ctx context.Context, doc []byte) (string, bool) {
	res := p.Extract(ctx, doc)
	return res.Text, res.Empty
}

func (p *Pipeline) Extract(ctx context.Context, doc []byte) Result {
	start := time.Now()
	res := Result{Method: constants.MethodNone}

	text := p.extractWith(ctx, p.text, StageText, doc, &res)
	if strings.TrimSpace(text) != "" {
		res.Text = text
		res.Method = constants.MethodPDFText
		res.Confidence = heuristicConfidence(text)
		res.Duration = time.Since(start)
		p.logger.Debug("pipeline.fast_path", "bytes", len(text), "duration_ms", res.Duration.Milliseconds())
		return res
	}

	ocrCtx, cancel := common.WithTimeout(ctx, p.ocrTimeout)
	text = p.extractWith(ocrCtx, p.ocr, StageRecognize, doc, &res)
	cancel()

	res.Text = text
	res.Empty = strings.TrimSpace(text) == ""
	if !res.Empty {
		res.Method = constants.MethodPDFOCR
		res.Confidence = heuristicConfidence(text)
	}
	res.Duration = time.Since(start)

	p.logger.Info("pipeline.ocr_path",
		"method", res.Method,
		"empty", res.Empty,
		"bytes", len(text),
		"failures", len(res.Failures),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res
}

// extractWith runs one strategy and degrades any failure to empty text.
func (p *Pipeline) extractWith(ctx context.Context, x Extractor, stage string, doc []byte, res *Result) string {
	if x == nil {
		res.Failures = append(res.Failures, failure(stage, ErrEngineUnavailable))
		return ""
	}
	text, err := x.Extract(ctx, doc)
	if err != nil {
		res.Failures = append(res.Failures, err)
		p.logger.Warn("pipeline.extract.failed", "stage", stage, "error", err)
		return ""
	}
	return text
}
