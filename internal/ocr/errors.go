package ocr

import (
	"errors"
	"fmt"
)

// Extraction stages, used to label failures.
const (
	StageText      = "text"
	StageRasterize = "rasterize"
	StageRecognize = "recognize"
)

var (
	ErrEmptyDocument     = errors.New("empty document")
	ErrNoPage            = errors.New("document has no renderable page")
	ErrEngineUnavailable = errors.New("recognition engine unavailable")
)

// ExtractionFailure is the error half of an extractor result. The pipeline
// absorbs it and degrades to empty text; it is never surfaced to callers of Run.
type ExtractionFailure struct {
	Stage string
	Err   error
}

func (f *ExtractionFailure) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", f.Stage, f.Err)
}

func (f *ExtractionFailure) Unwrap() error {
	return f.Err
}

func failure(stage string, err error) *ExtractionFailure {
	return &ExtractionFailure{Stage: stage, Err: err}
}
