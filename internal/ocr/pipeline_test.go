package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joseph-ayodele/facility-ledger/constants"
	"github.com/joseph-ayodele/facility-ledger/internal/inference"
)

type stubExtractor struct {
	text  string
	err   error
	calls int
	ctx   context.Context
}

func (s *stubExtractor) Extract(ctx context.Context, _ []byte) (string, error) {
	s.calls++
	s.ctx = ctx
	return s.text, s.err
}

// mustNotRun fails the test when the OCR fallback is reached.
type mustNotRun struct{ t *testing.T }

func (m mustNotRun) Extract(context.Context, []byte) (string, error) {
	m.t.Fatalf("ocr fallback must not run when the text layer has content")
	return "", nil
}

type blockingExtractor struct{}

func (blockingExtractor) Extract(ctx context.Context, _ []byte) (string, error) {
	<-ctx.Done()
	return "", failure(StageRecognize, ctx.Err())
}

var doc = []byte("%PDF-1.4 fake")

func TestPipeline_FastPath(t *testing.T) {
	text := &stubExtractor{text: "Item: Widget A\nQuantity: 2\n"}
	p := NewPipeline(text, mustNotRun{t: t}, nil)

	got, empty := p.Run(context.Background(), doc)
	if got != "Item: Widget A\nQuantity: 2\n" {
		t.Fatalf("unexpected text %q", got)
	}
	if empty {
		t.Fatalf("expected non-empty result")
	}
	if text.calls != 1 {
		t.Fatalf("expected text extractor to run once, ran %d", text.calls)
	}

	res := p.Extract(context.Background(), doc)
	if res.Method != constants.MethodPDFText {
		t.Fatalf("expected method %q, got %q", constants.MethodPDFText, res.Method)
	}
	if res.Confidence <= 0 {
		t.Fatalf("expected a positive confidence, got %v", res.Confidence)
	}
}

func TestPipeline_TextLayerFeedsInference(t *testing.T) {
	pdf := textPDF("Item: Widget A", "Quantity: 2", "Unit Cost: 123.45", "Vendor: Acme", "2024-05-01")
	p := NewPipeline(NewTextExtractor(nil), mustNotRun{t: t}, nil)

	res := p.Extract(context.Background(), pdf)
	if res.Empty || res.Method != constants.MethodPDFText {
		t.Fatalf("expected text-layer result, got method=%q empty=%v", res.Method, res.Empty)
	}

	f := inference.Infer(res.Text)
	switch {
	case f.Description == nil || *f.Description != "Widget A":
		t.Fatalf("description = %v", f.Description)
	case f.Quantity == nil || *f.Quantity != 2:
		t.Fatalf("quantity = %v", f.Quantity)
	case f.UnitCost == nil || *f.UnitCost != 123.45:
		t.Fatalf("unitCost = %v", f.UnitCost)
	case f.Vendor == nil || *f.Vendor != "Acme":
		t.Fatalf("vendor = %v", f.Vendor)
	case f.Date == nil || *f.Date != "2024-05-01":
		t.Fatalf("date = %v", f.Date)
	}
}

func TestPipeline_Fallback(t *testing.T) {
	t.Run("whitespace text layer falls back to ocr verbatim", func(t *testing.T) {
		text := &stubExtractor{text: "  \n\t \f"}
		ocr := &stubExtractor{text: "Item: Pump\nQuantity: 1\n"}
		p := NewPipeline(text, ocr, nil)

		res := p.Extract(context.Background(), doc)
		if ocr.calls != 1 {
			t.Fatalf("expected ocr to run once, ran %d", ocr.calls)
		}
		if res.Text != "Item: Pump\nQuantity: 1\n" {
			t.Fatalf("ocr output must be returned verbatim, got %q", res.Text)
		}
		if res.Empty {
			t.Fatalf("expected non-empty result")
		}
		if res.Method != constants.MethodPDFOCR {
			t.Fatalf("expected method %q, got %q", constants.MethodPDFOCR, res.Method)
		}
	})

	t.Run("ocr yields nothing", func(t *testing.T) {
		p := NewPipeline(&stubExtractor{}, &stubExtractor{text: " \n "}, nil)
		got, empty := p.Run(context.Background(), doc)
		if !empty {
			t.Fatalf("expected empty flag, got text %q", got)
		}
		if got != " \n " {
			t.Fatalf("ocr output must be returned verbatim, got %q", got)
		}
	})

	t.Run("both strategies fail", func(t *testing.T) {
		text := &stubExtractor{text: "partial", err: failure(StageText, errors.New("bad xref"))}
		ocr := &stubExtractor{err: failure(StageRecognize, ErrEngineUnavailable)}
		p := NewPipeline(text, ocr, nil)

		res := p.Extract(context.Background(), doc)
		if res.Text != "" || !res.Empty {
			t.Fatalf("expected empty transcript, got %q (empty=%v)", res.Text, res.Empty)
		}
		if res.Method != constants.MethodNone {
			t.Fatalf("expected method %q, got %q", constants.MethodNone, res.Method)
		}
		if len(res.Failures) != 2 {
			t.Fatalf("expected 2 recorded failures, got %d", len(res.Failures))
		}
		var ef *ExtractionFailure
		if !errors.As(res.Failures[1], &ef) || ef.Stage != StageRecognize {
			t.Fatalf("expected recognize failure, got %v", res.Failures[1])
		}
		if !errors.Is(res.Failures[1], ErrEngineUnavailable) {
			t.Fatalf("expected ErrEngineUnavailable in chain")
		}
	})

	t.Run("missing ocr strategy", func(t *testing.T) {
		p := NewPipeline(&stubExtractor{}, nil, nil)
		res := p.Extract(context.Background(), doc)
		if !res.Empty {
			t.Fatalf("expected empty result")
		}
		if len(res.Failures) != 1 || !errors.Is(res.Failures[0], ErrEngineUnavailable) {
			t.Fatalf("expected engine unavailable failure, got %v", res.Failures)
		}
	})
}

func TestPipeline_OCRTimeout(t *testing.T) {
	text := &stubExtractor{}
	p := NewPipeline(text, blockingExtractor{}, nil, WithOCRTimeout(20*time.Millisecond))

	start := time.Now()
	got, empty := p.Run(context.Background(), doc)
	if !empty || got != "" {
		t.Fatalf("expected empty result after timeout, got %q", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("ocr timeout not applied")
	}
	if _, ok := text.ctx.Deadline(); ok {
		t.Fatalf("the fast path must not carry the ocr deadline")
	}
}
