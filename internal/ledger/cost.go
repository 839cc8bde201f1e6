package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeTotal returns max(quantity*unitCost*(1+taxRate/100) - discount, 0)
// rounded to cents. Non-finite inputs count as zero.
func ComputeTotal(quantity, unitCost, taxRate, discount float64) float64 {
	qty := finite(quantity)
	unit := finite(unitCost)
	tax := finite(taxRate)
	disc := finite(discount)

	subtotal := qty.Mul(unit)
	taxed := subtotal.Mul(decimal.NewFromInt(1).Add(tax.Div(hundred)))
	total := taxed.Sub(disc)
	if total.IsNegative() {
		return 0
	}
	return Round2(total)
}

// Round2 rounds half away from zero to two decimals.
func Round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// RoundFloat2 is Round2 for plain floats.
func RoundFloat2(v float64) float64 {
	return Round2(finite(v))
}

func finite(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Coerce converts a loosely typed JSON value into a number. Missing, null or
// unparsable values become 0 rather than an error.
func Coerce(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if n {
			f = 1
		}
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
