package inference

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestInfer(t *testing.T) {
	t.Run("all labels present", func(t *testing.T) {
		f := Infer("Item: Widget A\nQuantity: 2\nUnit Cost: 123.45\nVendor: Acme\n2024-05-01")

		want := map[string]any{
			"description": "Widget A",
			"quantity":    2.0,
			"unitCost":    123.45,
			"vendor":      "Acme",
			"date":        "2024-05-01",
		}
		if got := f.Map(); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("only quantity", func(t *testing.T) {
		f := Infer("Quantity: 5")
		if !reflect.DeepEqual(f.Keys(), []string{"quantity"}) {
			t.Fatalf("expected only quantity, got %v", f.Keys())
		}
		if *f.Quantity != 5.0 {
			t.Fatalf("expected 5, got %v", *f.Quantity)
		}
	})

	t.Run("nothing matches", func(t *testing.T) {
		f := Infer("Thank you for your business")
		if !f.Empty() {
			t.Fatalf("expected no keys, got %v", f.Keys())
		}
		b, err := json.Marshal(f)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != "{}" {
			t.Fatalf("expected empty object, got %s", b)
		}
	})

	tests := []struct {
		name string
		text string
		key  string
		want any
	}{
		{"comma decimal quantity", "QUANTITY - 2,5", "quantity", 2.5},
		{"dash delimiter", "item - Boiler valve  \n", "description", "Boiler valve"},
		{"no delimiter", "Vendor Acme Plumbing", "vendor", "Acme Plumbing"},
		{"unit cost with comma", "unit cost: 10,50", "unitCost", 10.5},
		{"spaced unit cost label", "Unit   Cost:99.99", "unitCost", 99.99},
		{"date without label", "Invoice dated 2023-11-30 paid", "date", "2023-11-30"},
		{"first date wins", "2024-01-02 then 2024-03-04", "date", "2024-01-02"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Infer(tc.text).Map()
			if !reflect.DeepEqual(got[tc.key], tc.want) {
				t.Fatalf("expected %s=%v, got %v (all: %v)", tc.key, tc.want, got[tc.key], got)
			}
		})
	}

	t.Run("integer unit cost does not match", func(t *testing.T) {
		f := Infer("Unit Cost: 100")
		if f.UnitCost != nil {
			t.Fatalf("expected no unit cost, got %v", *f.UnitCost)
		}
	})
}
