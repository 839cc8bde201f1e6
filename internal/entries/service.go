// Package entries implements the ledger use cases: CRUD, document upload with
// text extraction, re-extraction and price history.
package entries

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/facility-ledger/internal/async"
	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/events"
	"github.com/joseph-ayodele/facility-ledger/internal/inference"
	"github.com/joseph-ayodele/facility-ledger/internal/ledger"
	"github.com/joseph-ayodele/facility-ledger/internal/ocr"
	"github.com/joseph-ayodele/facility-ledger/internal/storage"
)

// OCRWarning accompanies an extraction that produced no text.
const OCRWarning = "No text recognized; ensure pdftoppm and tesseract are installed."

// Extractor is satisfied by *ocr.Pipeline.
type Extractor interface {
	Extract(ctx context.Context, doc []byte) ocr.Result
}

// DocumentStore is satisfied by *storage.LocalStore.
type DocumentStore interface {
	Save(ctx context.Context, entryID string, data []byte, now time.Time) (storage.StoredDocument, error)
	Read(ctx context.Context, storedName string) ([]byte, error)
}

// Outcome is the result of an upload or re-extraction.
type Outcome struct {
	Entry      *ledger.Entry
	Method     string
	Empty      bool
	Confidence float32
	Fields     inference.Fields
	Changed    bool
	Duration   time.Duration
	Warning    string
}

// UploadRequest carries one uploaded document.
type UploadRequest struct {
	EntryID  string
	FileName string
	Data     []byte
}

// Service owns every read-modify-write on entries.
type Service struct {
	repo      ledger.Repository
	docs      DocumentStore
	extractor Extractor
	publisher events.Publisher
	queue     async.Queue
	logger    *slog.Logger
	now       func() time.Time

	// mu serialises read-modify-write cycles; extraction runs outside it.
	mu sync.Mutex
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ledger.Repository, docs DocumentStore, extractor Extractor, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:      repo,
		docs:      docs,
		extractor: extractor,
		publisher: events.NopPublisher{},
		logger:    logger,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetQueue attaches the background queue used by RerunAll. The queue is built
// after the service because its workers call back into it.
func (s *Service) SetQueue(q async.Queue) {
	s.queue = q
}

// Create stores a new entry built from a create payload on top of the defaults.
func (s *Service) Create(ctx context.Context, payload map[string]any) (*ledger.Entry, error) {
	e := ledger.EntryFromMap(s.now(), payload)
	if err := s.repo.Put(ctx, e); err != nil {
		s.logger.Error("entries.create.failed", "entry_id", e.ID, "error", err)
		return nil, err
	}
	s.logger.Info("entries.create.ok", "entry_id", e.ID)
	return e, nil
}

// List returns every entry in store order with totals refreshed.
func (s *Service) List(ctx context.Context) ([]*ledger.Entry, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		e.Recalculate()
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ledger.Entry, error) {
	return s.repo.Get(ctx, id)
}

// Update applies a general edit. Entries without a document reject it.
func (s *Service) Update(ctx context.Context, id string, payload map[string]any) (*ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.ApplyUpdate(ledger.PatchFromMap(payload)); err != nil {
		s.logger.Warn("entries.update.rejected", "entry_id", id, "error", err)
		return nil, err
	}
	if err := s.repo.Put(ctx, e); err != nil {
		s.logger.Error("entries.update.failed", "entry_id", id, "error", err)
		return nil, err
	}
	s.logger.Info("entries.update.ok", "entry_id", id, "total", e.Total)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("entries.delete.ok", "entry_id", id)
	return nil
}

// Upload stores the document, extracts its text and merges the inferred fields.
// The entry must exist before anything is written.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*Outcome, error) {
	v := common.NewValidator().
		Field("entry_id", req.EntryID, common.Required).
		Field("file", req.FileName, common.Required, common.PDFFileName)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	if len(req.Data) == 0 {
		return nil, ErrInvalidDocument
	}
	if _, err := s.repo.Get(ctx, req.EntryID); err != nil {
		return nil, err
	}

	log := common.LoggerFromContext(ctx, s.logger)
	doc, err := s.docs.Save(ctx, req.EntryID, req.Data, s.now())
	if err != nil {
		log.Error("entries.upload.save_failed", "entry_id", req.EntryID, "error", err)
		return nil, common.NewAppError("STORAGE_ERROR", "failed saving file", errors.Join(common.ErrStorage, err))
	}

	out, err := s.extractAndMerge(ctx, req.EntryID, req.Data, func(e *ledger.Entry, text string) {
		e.AttachDocument(req.FileName, doc.StoredName, doc.PublicPath, text)
	})
	if err != nil {
		return nil, err
	}
	log.Info("entries.upload.ok",
		"entry_id", req.EntryID,
		"stored_name", doc.StoredName,
		"method", out.Method,
		"empty", out.Empty,
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out, nil
}

// RerunOCR repeats extraction against the stored document.
func (s *Service) RerunOCR(ctx context.Context, id string) (*Outcome, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	log := common.LoggerFromContext(ctx, s.logger)
	if !e.HasDocument() {
		return nil, ErrNoStoredDocument
	}
	data, err := s.docs.Read(ctx, e.StoredFileName)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		log.Warn("entries.rerun.document_missing", "entry_id", id, "stored_name", e.StoredFileName)
		return nil, ErrDocumentMissing
	}
	if err != nil {
		return nil, common.NewAppError("STORAGE_ERROR", "failed reading stored file", errors.Join(common.ErrStorage, err))
	}

	out, err := s.extractAndMerge(ctx, id, data, func(e *ledger.Entry, text string) {
		e.OCRText = text
	})
	if err != nil {
		return nil, err
	}
	log.Info("entries.rerun.ok", "entry_id", id, "method", out.Method, "empty", out.Empty)
	return out, nil
}

// Reprocess adapts RerunOCR to the background queue.
func (s *Service) Reprocess(ctx context.Context, entryID string) error {
	_, err := s.RerunOCR(ctx, entryID)
	return err
}

// RerunAll schedules re-extraction of every entry with a stored document and
// returns how many were scheduled. Without a queue the work runs inline.
func (s *Service) RerunAll(ctx context.Context) (int, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	traceID := common.RequestIDFromContext(ctx)
	scheduled := 0
	for _, e := range list {
		if !e.HasDocument() {
			continue
		}
		if s.queue == nil {
			if err := s.Reprocess(ctx, e.ID); err != nil {
				s.logger.Warn("entries.rerun_all.entry_failed", "entry_id", e.ID, "error", err)
				continue
			}
		} else if err := s.queue.Enqueue(ctx, async.Job{EntryID: e.ID, SubmittedAt: s.now(), TraceID: traceID}); err != nil {
			s.logger.Error("entries.rerun_all.enqueue_failed", "entry_id", e.ID, "error", err)
			return scheduled, common.NewAppError("QUEUE_UNAVAILABLE", "re-extraction queue unavailable", errors.Join(common.ErrInternal, err))
		}
		scheduled++
	}
	s.logger.Info("entries.rerun_all.ok", "scheduled", scheduled, "total", len(list))
	return scheduled, nil
}

// extractAndMerge runs the pipeline and the inferencer on data, then applies
// attach, the inferred fields and a fresh total to the stored entry.
func (s *Service) extractAndMerge(ctx context.Context, id string, data []byte, attach func(e *ledger.Entry, text string)) (*Outcome, error) {
	res := s.extractor.Extract(ctx, data)
	fields := inference.Infer(res.Text)

	s.mu.Lock()
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	attach(e, res.Text)
	changed := e.ApplyFields(fields)
	e.Recalculate()
	err = s.repo.Put(ctx, e)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("entries.merge.failed", "entry_id", id, "error", err)
		return nil, err
	}

	out := &Outcome{
		Entry:      e,
		Method:     res.Method,
		Empty:      res.Empty,
		Confidence: res.Confidence,
		Fields:     fields,
		Changed:    changed,
		Duration:   res.Duration,
	}
	if res.Empty {
		out.Warning = OCRWarning
	}
	s.publish(ctx, out)
	return out, nil
}

func (s *Service) publish(ctx context.Context, out *Outcome) {
	ev := events.EntryExtracted{
		EntryID:    out.Entry.ID,
		FileName:   out.Entry.FileName,
		Method:     out.Method,
		Empty:      out.Empty,
		Confidence: float64(out.Confidence),
		Fields:     out.Fields.Map(),
		Changed:    out.Changed,
		Total:      out.Entry.Total,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishEntryExtracted(ctx, ev); err != nil {
		s.logger.Warn("entries.publish.failed", "entry_id", ev.EntryID, "error", err)
	}
}

// Prices returns the price history of an entry.
func (s *Service) Prices(ctx context.Context, id string) ([]ledger.PricePoint, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.PriceHistory == nil {
		return []ledger.PricePoint{}, nil
	}
	return e.PriceHistory, nil
}

// AddPrice appends a price point; the date defaults to today.
func (s *Service) AddPrice(ctx context.Context, id string, payload map[string]any) (ledger.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return ledger.PricePoint{}, err
	}
	p := ledger.PricePointFromMap(s.now(), payload)
	e.AddPrice(p)
	if err := s.repo.Put(ctx, e); err != nil {
		return ledger.PricePoint{}, err
	}
	return p, nil
}

func (s *Service) DeletePrice(ctx context.Context, id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := e.DeletePrice(index); err != nil {
		return err
	}
	return s.repo.Put(ctx, e)
}

// Audit summarises every entry.
func (s *Service) Audit(ctx context.Context) (ledger.Summary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(list, s.now()), nil
}

// Chart aggregates totals for the dashboard.
func (s *Service) Chart(ctx context.Context) (ledger.ChartData, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return ledger.ChartData{}, err
	}
	return ledger.Chart(list), nil
}
