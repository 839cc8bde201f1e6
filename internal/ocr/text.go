package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtractor reads the embedded text layer of a PDF held in memory.
type TextExtractor struct {
	logger *slog.Logger
}

func NewTextExtractor(logger *slog.Logger) *TextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextExtractor{logger: logger}
}

// Extract returns the text of every page, one line per text row. Any reader error, including a
// panic inside the PDF parser, is reported as an *ExtractionFailure.
func (x *TextExtractor) Extract(ctx context.Context, doc []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", failure(StageText, err)
	}
	if len(doc) == 0 {
		return "", failure(StageText, ErrEmptyDocument)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = failure(StageText, fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", failure(StageText, fmt.Errorf("open pdf: %w", err))
	}
	var buf strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", failure(StageText, fmt.Errorf("read text layer page %d: %w", i, err))
		}
		// one line per row, top to bottom
		for _, row := range rows {
			for _, word := range row.Content {
				buf.WriteString(word.S)
			}
			buf.WriteByte('\n')
		}
	}

	x.logger.Debug("text layer extracted", "pages", r.NumPage(), "bytes", buf.Len())
	return buf.String(), nil
}
