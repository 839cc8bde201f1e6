package ledger

import (
	"fmt"
	"time"

)

// Patch is a partial update. Nil members leave the current value untouched.
type Patch struct {
	Description *string
	Quantity    *float64
	UnitCost    *float64
	TaxRate     *float64
	Discount    *float64
	Date        *string
	Category    *string
	Vendor      *string
	Currency    *string
	Status      *string
	Notes       *string

	Building        *string
	Floor           *string
	Room            *string
	MaintenanceType *string
	Priority        *string
	AssignedTo      *string
	DueDate         *string
	ServiceProvider *string
	InvoiceNumber   *string
	PaymentStatus   *string
	WarrantyExpiry  *string
}

// ApplyUpdate is the general edit path. It is rejected, leaving the entry as it
// was, until a document has been attached.
func (e *Entry) ApplyUpdate(p Patch) error {
	if !e.HasDocument() {
		return ErrDocumentRequired
	}
	e.apply(p)
	return nil
}

func (e *Entry) apply(p Patch) {
	setStr(&e.Description, p.Description)
	setNum(&e.Quantity, p.Quantity)
	setNum(&e.UnitCost, p.UnitCost)
	setNum(&e.TaxRate, p.TaxRate)
	setNum(&e.Discount, p.Discount)
	setStr(&e.Date, p.Date)
	setStr(&e.Category, p.Category)
	setStr(&e.Vendor, p.Vendor)
	setStr(&e.Currency, p.Currency)
	setStr(&e.Status, p.Status)
	setStr(&e.Notes, p.Notes)

	setStr(&e.Building, p.Building)
	setStr(&e.Floor, p.Floor)
	setStr(&e.Room, p.Room)
	setStr(&e.MaintenanceType, p.MaintenanceType)
	setStr(&e.Priority, p.Priority)
	setStr(&e.AssignedTo, p.AssignedTo)
	setStr(&e.DueDate, p.DueDate)
	setStr(&e.ServiceProvider, p.ServiceProvider)
	setStr(&e.InvoiceNumber, p.InvoiceNumber)
	setStr(&e.PaymentStatus, p.PaymentStatus)
	setStr(&e.WarrantyExpiry, p.WarrantyExpiry)

	e.Recalculate()
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setNum(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// PatchFromMap reads a decoded JSON object. Numeric members are coerced, so a
// malformed number becomes 0 instead of failing the request.
func PatchFromMap(m map[string]any) Patch {
	return Patch{
		Description:     strField(m, "description"),
		Quantity:        numField(m, "quantity"),
		UnitCost:        numField(m, "unitCost"),
		TaxRate:         numField(m, "taxRate"),
		Discount:        numField(m, "discount"),
		Date:            strField(m, "date"),
		Category:        strField(m, "category"),
		Vendor:          strField(m, "vendor"),
		Currency:        strField(m, "currency"),
		Status:          strField(m, "status"),
		Notes:           strField(m, "notes"),
		Building:        strField(m, "building"),
		Floor:           strField(m, "floor"),
		Room:            strField(m, "room"),
		MaintenanceType: strField(m, "maintenanceType"),
		Priority:        strField(m, "priority"),
		AssignedTo:      strField(m, "assignedTo"),
		DueDate:         strField(m, "dueDate"),
		ServiceProvider: strField(m, "serviceProvider"),
		InvoiceNumber:   strField(m, "invoiceNumber"),
		PaymentStatus:   strField(m, "paymentStatus"),
		WarrantyExpiry:  strField(m, "warrantyExpiry"),
	}
}

// EntryFromMap builds a new entry from a create payload on top of the defaults.
// Provenance fields and an initial price history may be supplied; the total never can.
func EntryFromMap(now time.Time, m map[string]any) *Entry {
	e := NewEntry(now)
	e.apply(PatchFromMap(m))
	setStr(&e.FileName, strField(m, "fileName"))
	setStr(&e.FilePath, strField(m, "filePath"))
	setStr(&e.StoredFileName, strField(m, "storedFileName"))
	if raw, ok := m["priceHistory"].([]any); ok {
		for _, item := range raw {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			e.AddPrice(PricePointFromMap(now, obj))
		}
	}
	return e
}

// PricePointFromMap reads a price payload; the date defaults to today.
func PricePointFromMap(now time.Time, m map[string]any) PricePoint {
	p := PricePoint{
		Date:  now.UTC().Format(time.DateOnly),
		Price: Coerce(m["price"]),
	}
	if d := strField(m, "date"); d != nil && *d != "" {
		p.Date = *d
	}
	return p
}

func strField(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	var s string
	switch t := v.(type) {
	case nil:
	case string:
		s = t
	default:
		s = fmt.Sprint(t)
	}
	return &s
}

func numField(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	f := Coerce(v)
	return &f
}
