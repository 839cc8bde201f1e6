package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/joseph-ayodele/facility-ledger/constants"
	"github.com/joseph-ayodele/facility-ledger/internal/common"
)

type ProcessorQueue struct {
	proc    Reprocessor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	// quit is closed by Shutdown; senders waits out Enqueue calls still in flight
	// before ch is closed.
	mu      sync.Mutex
	closed  bool
	quit    chan struct{}
	senders sync.WaitGroup

	statusMu sync.RWMutex
	status   map[string]constants.JobStatus
}

var _ Queue = (*ProcessorQueue)(nil)

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc Reprocessor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 2,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 128),
		quit:    make(chan struct{}),
		status:  make(map[string]constants.JobStatus),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	q.setStatus(job.EntryID, constants.JobStatusRunning)
	start := time.Now()

	ctx, cancel := common.WithTimeout(context.Background(), q.timeout)
	err := q.proc.Reprocess(ctx, job.EntryID)
	cancel()

	if err != nil {
		q.setStatus(job.EntryID, constants.JobStatusFailed)
		q.logger.Error("queue.job.failed", "worker_id", workerID, "entry_id", job.EntryID, "trace_id", job.TraceID, "error", err)
		return
	}
	q.setStatus(job.EntryID, constants.JobStatusOCROK)
	q.logger.Info("queue.job.ok",
		"worker_id", workerID,
		"entry_id", job.EntryID,
		"trace_id", job.TraceID,
		"duration_ms", time.Since(start).Milliseconds(),
		"wait_ms", start.Sub(job.SubmittedAt).Milliseconds(),
	)
}

// Enqueue blocks while the buffer is full, until ctx is done or the queue
// shuts down.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("cannot enqueue: queue is shutting down", "entry_id", job.EntryID)
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	q.setStatus(job.EntryID, constants.JobStatusQueued)
	select {
	case q.ch <- job:
		q.logger.Info("queued entry for extraction", "entry_id", job.EntryID, "trace_id", job.TraceID)
		return nil
	default:
	}

	q.logger.Warn("queue full, applying backpressure", "entry_id", job.EntryID)
	select {
	case q.ch <- job:
		return nil
	case <-q.quit:
		q.setStatus(job.EntryID, constants.JobStatusFailed)
		return ErrQueueClosed
	case <-ctx.Done():
		q.setStatus(job.EntryID, constants.JobStatusFailed)
		return ctx.Err()
	}
}

// Status reports the last known state of the job for entryID.
func (q *ProcessorQueue) Status(entryID string) (constants.JobStatus, bool) {
	q.statusMu.RLock()
	defer q.statusMu.RUnlock()
	s, ok := q.status[entryID]
	return s, ok
}

// Statuses returns a snapshot of every tracked job.
func (q *ProcessorQueue) Statuses() map[string]constants.JobStatus {
	q.statusMu.RLock()
	defer q.statusMu.RUnlock()
	out := make(map[string]constants.JobStatus, len(q.status))
	for k, v := range q.status {
		out[k] = v
	}
	return out
}

func (q *ProcessorQueue) setStatus(entryID string, s constants.JobStatus) {
	q.statusMu.Lock()
	q.status[entryID] = s
	q.statusMu.Unlock()
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.quit)
	q.mu.Unlock()
	q.senders.Wait()
	close(q.ch)

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
