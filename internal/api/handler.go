package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/facility-ledger/internal/entries"
	"github.com/joseph-ayodele/facility-ledger/internal/export"
	"github.com/joseph-ayodele/facility-ledger/internal/ledger"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_services.go -package=mocks

// EntryService is the use-case surface the handlers drive.
type EntryService interface {
	Create(ctx context.Context, payload map[string]any) (*ledger.Entry, error)
	List(ctx context.Context) ([]*ledger.Entry, error)
	Update(ctx context.Context, id string, payload map[string]any) (*ledger.Entry, error)
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context, req entries.UploadRequest) (*entries.Outcome, error)
	RerunOCR(ctx context.Context, id string) (*entries.Outcome, error)
	RerunAll(ctx context.Context) (int, error)
	Prices(ctx context.Context, id string) ([]ledger.PricePoint, error)
	AddPrice(ctx context.Context, id string, payload map[string]any) (ledger.PricePoint, error)
	DeletePrice(ctx context.Context, id string, index int) error
	Audit(ctx context.Context) (ledger.Summary, error)
	Chart(ctx context.Context) (ledger.ChartData, error)
}

// ReportService renders workbooks.
type ReportService interface {
	ReportXLSX(ctx context.Context, in export.ReportInput) ([]byte, error)
	EntriesXLSX(ctx context.Context) ([]byte, error)
}

var (
	_ EntryService  = (*entries.Service)(nil)
	_ ReportService = (*export.Service)(nil)
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc     EntryService
	reports ReportService
	logger  *slog.Logger
	now     func() time.Time
}

func NewHandler(svc EntryService, reports ReportService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, reports: reports, logger: logger, now: time.Now}
}

type extractionInfo struct {
	Method     string   `json:"method"`
	Empty      bool     `json:"empty"`
	Confidence float32  `json:"confidence"`
	DurationMs int64    `json:"durationMs"`
	Fields     []string `json:"fields"`
}

// outcomeResponse is the entry plus what the extraction found.
type outcomeResponse struct {
	*ledger.Entry
	OCRWarning string         `json:"ocrWarning,omitempty"`
	Extraction extractionInfo `json:"extraction"`
}

func toOutcomeResponse(out *entries.Outcome) outcomeResponse {
	keys := out.Fields.Keys()
	if keys == nil {
		keys = []string{}
	}
	return outcomeResponse{
		Entry:      out.Entry,
		OCRWarning: out.Warning,
		Extraction: extractionInfo{
			Method:     out.Method,
			Empty:      out.Empty,
			Confidence: out.Confidence,
			DurationMs: out.Duration.Milliseconds(),
			Fields:     keys,
		},
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListRows(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateRow(c *gin.Context) {
	payload, ok := h.bindObject(c, schemaEntry)
	if !ok {
		return
	}
	e, err := h.svc.Create(c.Request.Context(), payload)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) UpdateRow(c *gin.Context) {
	payload, ok := h.bindObject(c, schemaEntry)
	if !ok {
		return
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteRow(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, h.logger, errNoFile)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.logger, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, h.logger, fmt.Errorf("read upload: %w", err))
		return
	}

	out, err := h.svc.Upload(c.Request.Context(), entries.UploadRequest{
		EntryID:  c.Param("id"),
		FileName: fh.Filename,
		Data:     data,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOutcomeResponse(out))
}

func (h *Handler) RerunOCR(c *gin.Context) {
	out, err := h.svc.RerunOCR(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOutcomeResponse(out))
}

func (h *Handler) RerunAll(c *gin.Context) {
	n, err := h.svc.RerunAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"scheduled": n})
}

func (h *Handler) ListPrices(c *gin.Context) {
	list, err := h.svc.Prices(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) AddPrice(c *gin.Context) {
	payload, ok := h.bindObject(c, schemaPrice)
	if !ok {
		return
	}
	p, err := h.svc.AddPrice(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) DeletePrice(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeError(c, h.logger, errInvalidIndex)
		return
	}
	if err := h.svc.DeletePrice(c.Request.Context(), c.Param("id"), index); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ChartData(c *gin.Context) {
	data, err := h.svc.Chart(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *Handler) Audit(c *gin.Context) {
	s, err := h.svc.Audit(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Report renders the audit workbook. A JSON body may carry "rows" and "summary"
// to report on instead of the stored entries.
func (h *Handler) Report(c *gin.Context) {
	var in export.ReportInput
	if c.Request.Method == http.MethodPost && c.ContentType() == gin.MIMEJSON {
		payload, ok := h.bindObject(c, schemaReport)
		if !ok {
			return
		}
		in = reportInputFromMap(payload)
	}
	data, err := h.reports.ReportXLSX(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.attachment(c, export.ReportFileName(h.now()), data)
}

func (h *Handler) Export(c *gin.Context) {
	data, err := h.reports.EntriesXLSX(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.attachment(c, export.ExportFileName(h.now()), data)
}

func (h *Handler) attachment(c *gin.Context, name string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxMIME, data)
}

func (h *Handler) bindObject(c *gin.Context, schema string) (map[string]any, bool) {
	body, err := c.GetRawData()
	if err != nil {
		writeError(c, h.logger, errInvalidJSON)
		return nil, false
	}
	payload, err := decodeObject(schema, body)
	if err != nil {
		writeError(c, h.logger, err)
		return nil, false
	}
	return payload, true
}

func reportInputFromMap(m map[string]any) export.ReportInput {
	var in export.ReportInput
	if raw, ok := m["rows"].([]any); ok {
		in.Rows = make([]export.ReportRow, 0, len(raw))
		for _, item := range raw {
			obj, _ := item.(map[string]any)
			in.Rows = append(in.Rows, export.ReportRow{
				Description: text(obj["description"]),
				Quantity:    ledger.Coerce(obj["quantity"]),
				UnitCost:    ledger.Coerce(obj["unitCost"]),
				Total:       ledger.Coerce(obj["total"]),
			})
		}
	}
	if summary, ok := m["summary"].(map[string]any); ok {
		in.Summary = export.SummaryFieldsFromMap(summary)
	}
	return in
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
