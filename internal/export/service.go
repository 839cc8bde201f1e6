package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/facility-ledger/internal/ledger"
)

const (
	entriesSheet = "Entries"
	summarySheet = "Audit Summary"
	tableSheet   = "Table Data"
)

// ReportRow is one line of the report table.
type ReportRow struct {
	Description string
	Quantity    float64
	UnitCost    float64
	Total       float64
}

// SummaryField is one key/value line of the audit summary sheet.
type SummaryField struct {
	Key   string
	Value any
}

// ReportInput lets callers supply their own rows and summary. Nil members are
// filled from the repository.
type ReportInput struct {
	Rows    []ReportRow
	Summary []SummaryField
}

// Service produces XLSX bytes for exports and reports.
type Service struct {
	repo   ledger.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo ledger.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ReportFileName is the download name of a report generated at t.
func ReportFileName(t time.Time) string {
	return "report_" + t.UTC().Format("20060102_150405") + ".xlsx"
}

// ExportFileName is the download name of an entries export generated at t.
func ExportFileName(t time.Time) string {
	return "entries_" + t.UTC().Format("20060102_150405") + ".xlsx"
}

// RowsFromEntries maps entries onto report rows in store order.
func RowsFromEntries(entries []*ledger.Entry) []ReportRow {
	rows := make([]ReportRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ReportRow{
			Description: e.Description,
			Quantity:    e.Quantity,
			UnitCost:    e.UnitCost,
			Total:       ledger.ComputeTotal(e.Quantity, e.UnitCost, e.TaxRate, e.Discount),
		})
	}
	return rows
}

// SummaryFields lists a summary in its JSON key order.
func SummaryFields(s ledger.Summary) []SummaryField {
	return []SummaryField{
		{Key: "items", Value: s.Items},
		{Key: "grandTotal", Value: s.GrandTotal},
		{Key: "average", Value: s.Average},
		{Key: "generatedAt", Value: s.GeneratedAt},
	}
}

// SummaryFieldsFromMap orders a caller-supplied summary: known keys first, the rest by name.
func SummaryFieldsFromMap(m map[string]any) []SummaryField {
	known := []string{"items", "grandTotal", "average", "generatedAt"}
	out := make([]SummaryField, 0, len(m))
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		if v, ok := m[k]; ok {
			out = append(out, SummaryField{Key: k, Value: v})
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, SummaryField{Key: k, Value: m[k]})
	}
	return out
}

// ReportXLSX builds the two-sheet audit report.
func (s *Service) ReportXLSX(ctx context.Context, in ReportInput) ([]byte, error) {
	start := time.Now()
	if in.Rows == nil || in.Summary == nil {
		entries, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		if in.Rows == nil {
			in.Rows = RowsFromEntries(entries)
		}
		if in.Summary == nil {
			in.Summary = SummaryFields(ledger.Summarize(entries, s.now()))
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	// The default "Sheet1" becomes the summary sheet.
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	_ = f.SetCellValue(summarySheet, "A1", "External Report (Generated)")
	_ = f.SetCellValue(summarySheet, "A3", "Audit Summary")
	for i, kv := range in.Summary {
		row := i + 4
		_ = f.SetCellValue(summarySheet, cell(1, row), kv.Key)
		_ = f.SetCellValue(summarySheet, cell(2, row), kv.Value)
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 28)

	if _, err := f.NewSheet(tableSheet); err != nil {
		return nil, err
	}
	headers := []string{"#", "Description", "Quantity", "Unit Cost", "Total"}
	for i, h := range headers {
		_ = f.SetCellValue(tableSheet, cell(i+1, 1), h)
	}
	if style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	}); err == nil {
		_ = f.SetCellStyle(tableSheet, "A1", cell(len(headers), 1), style)
	}
	for i, r := range in.Rows {
		row := i + 2
		_ = f.SetCellValue(tableSheet, cell(1, row), i+1)
		_ = f.SetCellValue(tableSheet, cell(2, row), r.Description)
		_ = f.SetCellValue(tableSheet, cell(3, row), r.Quantity)
		_ = f.SetCellValue(tableSheet, cell(4, row), r.UnitCost)
		_ = f.SetCellValue(tableSheet, cell(5, row), r.Total)
	}
	_ = f.SetColWidth(tableSheet, "A", "A", 6)
	_ = f.SetColWidth(tableSheet, "B", "B", 40)
	_ = f.SetColWidth(tableSheet, "C", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.report.ok",
		"rows", len(in.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

var entryHeaders = []string{
	"ID", "Date", "Description", "Vendor", "Category", "Quantity", "Unit Cost", "Tax Rate",
	"Discount", "Total", "Currency", "Status", "Building", "Floor", "Room", "Maintenance Type",
	"Priority", "Assigned To", "Due Date", "Service Provider", "Invoice Number", "Payment Status",
	"Warranty Expiry", "Notes", "File Name", "File Path",
}

// EntriesXLSX exports every entry, one row each, in store order.
func (s *Service) EntriesXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), entriesSheet); err != nil {
		return nil, err
	}

	for i, h := range entryHeaders {
		_ = f.SetCellValue(entriesSheet, cell(i+1, 1), h)
	}
	for i, e := range entries {
		row := i + 2
		values := []any{
			e.ID, e.Date, e.Description, e.Vendor, e.Category, e.Quantity, e.UnitCost, e.TaxRate,
			e.Discount, e.Total, e.Currency, e.Status, e.Building, e.Floor, e.Room, e.MaintenanceType,
			e.Priority, e.AssignedTo, e.DueDate, e.ServiceProvider, e.InvoiceNumber, e.PaymentStatus,
			e.WarrantyExpiry, truncate(e.Notes, 140), e.FileName, e.FilePath,
		}
		for col, v := range values {
			_ = f.SetCellValue(entriesSheet, cell(col+1, row), v)
		}
	}
	_ = f.SetColWidth(entriesSheet, "A", "A", 38) // id
	_ = f.SetColWidth(entriesSheet, "C", "C", 36) // description
	_ = f.SetColWidth(entriesSheet, "X", "X", 48) // notes
	_ = f.SetColWidth(entriesSheet, "Z", "Z", 48) // path

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// truncate limits s to n characters, counted in runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
