package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/inference"
	"github.com/joseph-ayodele/facility-ledger/internal/server"
)

type output struct {
	File       string         `json:"file"`
	Method     string         `json:"method"`
	Empty      bool           `json:"empty"`
	Confidence float32        `json:"confidence"`
	DurationMs int64          `json:"duration_ms"`
	Fields     map[string]any `json:"fields"`
	Transcript string         `json:"transcript"`
}

func main() {
	cfg := common.LoadConfig()
	logger := server.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <path-to.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]
	doc, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read document", "path", path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	p := server.NewPipeline(ctx, cfg.OCR, logger)
	res := p.Extract(ctx, doc)
	for _, f := range res.Failures {
		logger.Warn("extraction stage failed", "error", f)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{
		File:       path,
		Method:     res.Method,
		Empty:      res.Empty,
		Confidence: res.Confidence,
		DurationMs: res.Duration.Milliseconds(),
		Fields:     inference.Infer(res.Text).Map(),
		Transcript: res.Text,
	}); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}
