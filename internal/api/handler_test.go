package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/joseph-ayodele/facility-ledger/internal/api/mocks"
	"github.com/joseph-ayodele/facility-ledger/internal/common"
	"github.com/joseph-ayodele/facility-ledger/internal/entries"
	"github.com/joseph-ayodele/facility-ledger/internal/export"
	"github.com/joseph-ayodele/facility-ledger/internal/inference"
	"github.com/joseph-ayodele/facility-ledger/internal/ledger"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type testServer struct {
	svc     *mocks.MockEntryService
	reports *mocks.MockReportService
	router  *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	s := &testServer{
		svc:     mocks.NewMockEntryService(ctrl),
		reports: mocks.NewMockReportService(ctrl),
	}
	h := NewHandler(s.svc, s.reports, nil)
	h.now = func() time.Time { return now }
	s.router = NewRouter(h, "", nil)
	return s
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"status":"ok"}` {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestRows(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		s := newTestServer(t)
		e := ledger.NewEntry(now)
		s.svc.EXPECT().List(gomock.Any()).Return([]*ledger.Entry{e}, nil)

		w := s.do(http.MethodGet, "/api/rows", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var got []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || got[0]["id"] != e.ID || got[0]["paymentStatus"] != "Unpaid" {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("create with lenient numbers", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, payload map[string]any) (*ledger.Entry, error) {
				if payload["quantity"] != "2" || payload["unitCost"] != 3.5 {
					t.Errorf("unexpected payload %v", payload)
				}
				return ledger.EntryFromMap(now, payload), nil
			})

		w := s.do(http.MethodPost, "/api/rows", `{"quantity":"2","unitCost":3.5,"discount":null}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("create with empty body", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().Create(gomock.Any(), map[string]any{}).Return(ledger.NewEntry(now), nil)
		if w := s.do(http.MethodPost, "/api/rows", ""); w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("create rejects schema violations", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/api/rows", `{"quantity":{"nested":true}}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if e := decodeError(t, w); e.Code != "VALIDATION_FAILED" {
			t.Fatalf("unexpected code %q", e.Code)
		}
	})

	t.Run("create rejects invalid json", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/api/rows", `{`)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != "INVALID_JSON" {
			t.Fatalf("expected INVALID_JSON 400, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("update without document", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().Update(gomock.Any(), "e-1", gomock.Any()).Return(nil, ledger.ErrDocumentRequired)

		w := s.do(http.MethodPut, "/api/rows/e-1", `{"quantity":3}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		e := decodeError(t, w)
		if e.Code != "DOCUMENT_REQUIRED" || e.Error != "PDF required before editing this row" {
			t.Fatalf("unexpected error body %+v", e)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().Delete(gomock.Any(), "e-1").Return(nil)
		s.svc.EXPECT().Delete(gomock.Any(), "e-2").Return(ledger.ErrEntryNotFound)

		if w := s.do(http.MethodDelete, "/api/rows/e-1", ""); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		w := s.do(http.MethodDelete, "/api/rows/e-2", "")
		if w.Code != http.StatusNotFound || decodeError(t, w).Error != "Row not found" {
			t.Fatalf("expected 404 Row not found, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("internal errors", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))
		w := s.do(http.MethodGet, "/api/rows", "")
		if w.Code != http.StatusInternalServerError || decodeError(t, w).Code != "INTERNAL" {
			t.Fatalf("expected 500 INTERNAL, got %d %s", w.Code, w.Body.String())
		}
	})
}

func multipartBody(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	t.Run("success with warning", func(t *testing.T) {
		s := newTestServer(t)
		e := ledger.NewEntry(now)
		s.svc.EXPECT().Upload(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req entries.UploadRequest) (*entries.Outcome, error) {
				if req.EntryID != "e-1" || req.FileName != "scan.pdf" || string(req.Data) != "%PDF-1.4" {
					t.Errorf("unexpected request %+v", req)
				}
				return &entries.Outcome{Entry: e, Method: "none", Empty: true, Warning: entries.OCRWarning}, nil
			})

		body, ct := multipartBody(t, "file", "scan.pdf", []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload/e-1", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
		}
		var got map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got["id"] != e.ID || got["ocrWarning"] != entries.OCRWarning {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
		ext, _ := got["extraction"].(map[string]any)
		if ext["method"] != "none" || ext["empty"] != true {
			t.Fatalf("unexpected extraction %v", ext)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		s := newTestServer(t)
		body, ct := multipartBody(t, "other", "scan.pdf", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload/e-1", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest || decodeError(t, w).Error != "no file" {
			t.Fatalf("expected 400 no file, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(nil, ledger.ErrEntryNotFound)
		body, ct := multipartBody(t, "file", "scan.pdf", []byte("%PDF"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload/missing", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestRerun(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"no stored document", entries.ErrNoStoredDocument, http.StatusBadRequest},
		{"document missing", entries.ErrDocumentMissing, http.StatusNotFound},
		{"unknown entry", ledger.ErrEntryNotFound, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			s.svc.EXPECT().RerunOCR(gomock.Any(), "e-1").Return(nil, tc.err)
			if w := s.do(http.MethodPost, "/api/rows/e-1/ocr", ""); w.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, w.Code)
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		s := newTestServer(t)
		q := 2.0
		s.svc.EXPECT().RerunOCR(gomock.Any(), "e-1").Return(&entries.Outcome{
			Entry:  ledger.NewEntry(now),
			Method: "pdf-text",
			Fields: inference.Fields{Quantity: &q},
		}, nil)
		w := s.do(http.MethodPost, "/api/rows/e-1/ocr", "")
		if w.Code != http.StatusOK || strings.Contains(w.Body.String(), "ocrWarning") {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"fields":["quantity"]`) {
			t.Fatalf("expected inferred keys in %s", w.Body.String())
		}
	})

	t.Run("bulk", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().RerunAll(gomock.Any()).
			DoAndReturn(func(ctx context.Context) (int, error) {
				if common.RequestIDFromContext(ctx) != "req-7" {
					t.Errorf("request id not propagated")
				}
				return 3, nil
			})
		req := httptest.NewRequest(http.MethodPost, "/api/ocr/rerun", nil)
		req.Header.Set(requestIDHeader, "req-7")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		if w.Code != http.StatusAccepted || strings.TrimSpace(w.Body.String()) != `{"scheduled":3}` {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})
}

func TestPrices(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().Prices(gomock.Any(), "e-1").Return([]ledger.PricePoint{}, nil)
		w := s.do(http.MethodGet, "/api/rows/e-1/prices", "")
		if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("add", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().AddPrice(gomock.Any(), "e-1", map[string]any{"price": "9.5"}).
			Return(ledger.PricePoint{Date: "2024-05-01", Price: 9.5}, nil)
		w := s.do(http.MethodPost, "/api/rows/e-1/prices", `{"price":"9.5"}`)
		if w.Code != http.StatusCreated || strings.TrimSpace(w.Body.String()) != `{"date":"2024-05-01","price":9.5}` {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestServer(t)
		s.svc.EXPECT().DeletePrice(gomock.Any(), "e-1", 0).Return(nil)
		s.svc.EXPECT().DeletePrice(gomock.Any(), "e-1", 9).Return(ledger.ErrPriceIndexOutOfRange)

		if w := s.do(http.MethodDelete, "/api/rows/e-1/prices/0", ""); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		w := s.do(http.MethodDelete, "/api/rows/e-1/prices/9", "")
		if w.Code != http.StatusBadRequest || decodeError(t, w).Error != "Index out of range" {
			t.Fatalf("expected 400 Index out of range, got %d %s", w.Code, w.Body.String())
		}
		if w := s.do(http.MethodDelete, "/api/rows/e-1/prices/abc", ""); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for a non-integer index, got %d", w.Code)
		}
	})
}

func TestAggregates(t *testing.T) {
	s := newTestServer(t)
	s.svc.EXPECT().Audit(gomock.Any()).Return(ledger.Summary{Items: 2, GrandTotal: 20, Average: 10, GeneratedAt: "2024-05-01T09:30:00Z"}, nil)
	s.svc.EXPECT().Chart(gomock.Any()).Return(ledger.ChartData{Labels: []string{"Row 1"}, Totals: []float64{20}, ByCategory: map[string]float64{"General": 20}}, nil)

	w := s.do(http.MethodGet, "/api/audit", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"grandTotal":20`) {
		t.Fatalf("unexpected audit %d %s", w.Code, w.Body.String())
	}
	w = s.do(http.MethodGet, "/api/chart-data", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"labels":["Row 1"]`) {
		t.Fatalf("unexpected chart %d %s", w.Code, w.Body.String())
	}
}

func TestReports(t *testing.T) {
	t.Run("get uses stored entries", func(t *testing.T) {
		s := newTestServer(t)
		s.reports.EXPECT().ReportXLSX(gomock.Any(), export.ReportInput{}).Return([]byte("xlsx"), nil)
		w := s.do(http.MethodGet, "/api/report", "")
		if w.Code != http.StatusOK || w.Body.String() != "xlsx" {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
		if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="report_20240501_093000.xlsx"` {
			t.Fatalf("unexpected disposition %q", cd)
		}
		if ct := w.Header().Get("Content-Type"); ct != xlsxMIME {
			t.Fatalf("unexpected content type %q", ct)
		}
	})

	t.Run("post with rows and summary", func(t *testing.T) {
		s := newTestServer(t)
		s.reports.EXPECT().ReportXLSX(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in export.ReportInput) ([]byte, error) {
				if len(in.Rows) != 1 || in.Rows[0].Description != "Pump" || in.Rows[0].Quantity != 2 {
					t.Errorf("unexpected rows %+v", in.Rows)
				}
				if len(in.Summary) != 1 || in.Summary[0].Key != "items" {
					t.Errorf("unexpected summary %+v", in.Summary)
				}
				return []byte("xlsx"), nil
			})
		w := s.do(http.MethodPost, "/api/report", `{"rows":[{"description":"Pump","quantity":"2","total":10}],"summary":{"items":1}}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("post rejects malformed rows", func(t *testing.T) {
		s := newTestServer(t)
		if w := s.do(http.MethodPost, "/api/report", `{"rows":"nope"}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("export", func(t *testing.T) {
		s := newTestServer(t)
		s.reports.EXPECT().EntriesXLSX(gomock.Any()).Return([]byte("xlsx"), nil)
		w := s.do(http.MethodGet, "/api/export", "")
		if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Disposition"), "entries_20240501_093000.xlsx") {
			t.Fatalf("unexpected response %d %v", w.Code, w.Header())
		}
	})
}
