package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the audit view over all entries.
type Summary struct {
	Items       int     `json:"items"`
	GrandTotal  float64 `json:"grandTotal"`
	Average     float64 `json:"average"`
	GeneratedAt string  `json:"generatedAt"`
}

// ChartData feeds the dashboard charts.
type ChartData struct {
	Labels     []string           `json:"labels"`
	Totals     []float64          `json:"totals"`
	ByCategory map[string]float64 `json:"byCategory"`
}

// counted reports whether an entry carries any line-item content.
func counted(e *Entry) bool {
	return strings.TrimSpace(e.Description) != "" || e.Quantity != 0 || e.UnitCost != 0
}

// Summarize counts entries with content, while the grand total covers every entry.
func Summarize(entries []*Entry, now time.Time) Summary {
	items := 0
	sum := decimal.Zero
	for _, e := range entries {
		if counted(e) {
			items++
		}
		sum = sum.Add(decimal.NewFromFloat(ComputeTotal(e.Quantity, e.UnitCost, e.TaxRate, e.Discount)))
	}
	s := Summary{
		Items:       items,
		GrandTotal:  Round2(sum),
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}
	if items > 0 {
		s.Average = Round2(decimal.NewFromFloat(s.GrandTotal).Div(decimal.NewFromInt(int64(items))))
	}
	return s
}

// Chart returns per-row totals in store order and totals grouped by category.
func Chart(entries []*Entry) ChartData {
	c := ChartData{
		Labels:     make([]string, 0, len(entries)),
		Totals:     make([]float64, 0, len(entries)),
		ByCategory: make(map[string]float64),
	}
	sums := make(map[string]decimal.Decimal)
	for i, e := range entries {
		total := ComputeTotal(e.Quantity, e.UnitCost, e.TaxRate, e.Discount)
		c.Labels = append(c.Labels, fmt.Sprintf("Row %d", i+1))
		c.Totals = append(c.Totals, total)
		sums[e.Category] = sums[e.Category].Add(decimal.NewFromFloat(total))
	}
	for cat, v := range sums {
		c.ByCategory[cat] = Round2(v)
	}
	return c
}
