package pricing

import (
	"github.com/angelmondragon/kasir-pos/internal/cart"
	"github.com/shopspring/decimal"
)

// Totals is the derived view shown under the cart.
type Totals struct {
	Subtotal  int64 `json:"subtotal"`
	Tax       int64 `json:"tax"`
	Total     int64 `json:"total"`
	ItemCount int   `json:"item_count"`
}

// ComputeTotals sums the lines and applies rate (a fraction, 0.11 for 11%).
// Tax is rounded to whole rupiah, half away from zero.
func ComputeTotals(items []cart.LineItem, rate decimal.Decimal) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Subtotal()
		t.ItemCount += it.Quantity
	}
	t.Tax = roundAmount(decimal.NewFromInt(t.Subtotal).Mul(rate))
	t.Total = t.Subtotal + t.Tax
	return t
}

func roundAmount(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
