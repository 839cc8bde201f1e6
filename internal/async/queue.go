package async

import (
	"context"
	"errors"
	"time"
)

// ErrQueueClosed is returned by Enqueue once Shutdown has started.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job asks for the stored document of one entry to be extracted again.
type Job struct {
	EntryID     string
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Reprocessor runs the extraction for a single entry.
type Reprocessor interface {
	Reprocess(ctx context.Context, entryID string) error
}
