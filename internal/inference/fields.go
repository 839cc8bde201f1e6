// Package inference derives structured ledger fields from a plain-text transcript
// using labelled pattern matching. It is a best-effort heuristic: a label that is
// missing or ambiguous simply yields no value.
package inference

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reDescription = regexp.MustCompile(`(?i)Item\s*[:\-]?\s*([^\n]+)`)
	reQuantity    = regexp.MustCompile(`(?i)Quantity\s*[:\-]?\s*(\d+(?:[\.,]\d+)?)`)
	reUnitCost    = regexp.MustCompile(`(?i)Unit\s*Cost\s*[:\-]?\s*(\d+[\.,]\d{2})`)
	reVendor      = regexp.MustCompile(`(?i)Vendor\s*[:\-]?\s*([^\n]+)`)
	reDate        = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
)

// Keys as they appear in the JSON mapping.
const (
	KeyDescription = "description"
	KeyQuantity    = "quantity"
	KeyUnitCost    = "unitCost"
	KeyVendor      = "vendor"
	KeyDate        = "date"
)

// Fields is a sparse mapping: a nil member was not found in the text.
type Fields struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitCost    *float64 `json:"unitCost,omitempty"`
	Vendor      *string  `json:"vendor,omitempty"`
	Date        *string  `json:"date,omitempty"`
}

// Infer runs every pattern independently; each one either matches or contributes nothing.
func Infer(text string) Fields {
	var f Fields
	if m := reDescription.FindStringSubmatch(text); m != nil {
		f.Description = strPtr(strings.TrimSpace(m[1]))
	}
	if m := reQuantity.FindStringSubmatch(text); m != nil {
		f.Quantity = parseDecimal(m[1])
	}
	if m := reUnitCost.FindStringSubmatch(text); m != nil {
		f.UnitCost = parseDecimal(m[1])
	}
	if m := reVendor.FindStringSubmatch(text); m != nil {
		f.Vendor = strPtr(strings.TrimSpace(m[1]))
	}
	if m := reDate.FindStringSubmatch(text); m != nil {
		f.Date = strPtr(m[1])
	}
	return f
}

// Empty reports whether nothing was inferred.
func (f Fields) Empty() bool {
	return len(f.Keys()) == 0
}

// Keys lists the inferred keys in pattern order.
func (f Fields) Keys() []string {
	var keys []string
	if f.Description != nil {
		keys = append(keys, KeyDescription)
	}
	if f.Quantity != nil {
		keys = append(keys, KeyQuantity)
	}
	if f.UnitCost != nil {
		keys = append(keys, KeyUnitCost)
	}
	if f.Vendor != nil {
		keys = append(keys, KeyVendor)
	}
	if f.Date != nil {
		keys = append(keys, KeyDate)
	}
	return keys
}

// Map returns the inferred values keyed by their JSON names.
func (f Fields) Map() map[string]any {
	out := make(map[string]any, 5)
	if f.Description != nil {
		out[KeyDescription] = *f.Description
	}
	if f.Quantity != nil {
		out[KeyQuantity] = *f.Quantity
	}
	if f.UnitCost != nil {
		out[KeyUnitCost] = *f.UnitCost
	}
	if f.Vendor != nil {
		out[KeyVendor] = *f.Vendor
	}
	if f.Date != nil {
		out[KeyDate] = *f.Date
	}
	return out
}

func parseDecimal(s string) *float64 {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &v
}

func strPtr(s string) *string { return &s }
