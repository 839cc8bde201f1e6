package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/facility-ledger/constants"
	"github.com/joseph-ayodele/facility-ledger/internal/inference"
)

// PricePoint is one observation in an entry's price history.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Entry is one tracked invoice, receipt or maintenance record.
// Total is derived from the financial fields and is recomputed on every mutation.
type Entry struct {
	ID string `json:"id"`

	Quantity float64 `json:"quantity"`
	UnitCost float64 `json:"unitCost"`
	TaxRate  float64 `json:"taxRate"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`

	OCRText        string `json:"ocrText"`
	FileName       string `json:"fileName"`
	StoredFileName string `json:"storedFileName"`
	FilePath       string `json:"filePath"`

	Description string `json:"description"`
	Vendor      string `json:"vendor"`
	Category    string `json:"category"`
	Currency    string `json:"currency"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`

	Building        string `json:"building"`
	Floor           string `json:"floor"`
	Room            string `json:"room"`
	MaintenanceType string `json:"maintenanceType"`
	Priority        string `json:"priority"`
	AssignedTo      string `json:"assignedTo"`
	DueDate         string `json:"dueDate"`
	ServiceProvider string `json:"serviceProvider"`
	InvoiceNumber   string `json:"invoiceNumber"`
	PaymentStatus   string `json:"paymentStatus"`
	WarrantyExpiry  string `json:"warrantyExpiry"`

	PriceHistory []PricePoint `json:"priceHistory"`
}

// NewEntry returns an entry with a fresh id and the default descriptive values.
func NewEntry(now time.Time) *Entry {
	return &Entry{
		ID:            uuid.NewString(),
		Date:          now.UTC().Format(time.DateOnly),
		Category:      string(constants.General),
		Currency:      constants.DefaultCurrency,
		Status:        constants.DefaultStatus,
		Priority:      constants.DefaultPriority,
		PaymentStatus: constants.DefaultPaymentStatus,
		PriceHistory:  []PricePoint{},
	}
}

// Recalculate refreshes the derived total.
func (e *Entry) Recalculate() {
	e.Total = ComputeTotal(e.Quantity, e.UnitCost, e.TaxRate, e.Discount)
}

// HasDocument reports whether a source document is attached.
func (e *Entry) HasDocument() bool {
	return e.StoredFileName != ""
}

// Clone returns a deep copy.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.PriceHistory = append([]PricePoint{}, e.PriceHistory...)
	return &c
}

// ApplyFields merges inferred values: present keys overwrite, absent keys keep
// the current value. It reports whether anything was applied.
func (e *Entry) ApplyFields(f inference.Fields) bool {
	if f.Empty() {
		return false
	}
	if f.Description != nil {
		e.Description = *f.Description
	}
	if f.Quantity != nil {
		e.Quantity = *f.Quantity
	}
	if f.UnitCost != nil {
		e.UnitCost = *f.UnitCost
	}
	if f.Vendor != nil {
		e.Vendor = *f.Vendor
	}
	if f.Date != nil {
		e.Date = *f.Date
	}
	e.Recalculate()
	return true
}

// AttachDocument records an uploaded document and its transcript. It is the one
// write that is allowed on an entry without a document.
func (e *Entry) AttachDocument(fileName, storedName, publicPath, transcript string) {
	e.FileName = fileName
	e.StoredFileName = storedName
	e.FilePath = publicPath
	e.OCRText = transcript
}

// AddPrice appends to the price history. The total is unaffected.
func (e *Entry) AddPrice(p PricePoint) {
	e.PriceHistory = append(e.PriceHistory, p)
}

// DeletePrice removes the point at index.
func (e *Entry) DeletePrice(index int) error {
	if index < 0 || index >= len(e.PriceHistory) {
		return ErrPriceIndexOutOfRange
	}
	e.PriceHistory = append(e.PriceHistory[:index:index], e.PriceHistory[index+1:]...)
	return nil
}
