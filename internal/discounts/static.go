package discounts

import (
	"context"
	"time"

	"github.com/angelmondragon/kasir-pos/pkg/enums"
)

func amount(v int64) *int64 { return &v }

func at(t time.Time) *time.Time { return &t }

var demoDiscounts = []Discount{
	{Code: "HEMAT10", Name: "Hemat 10%", Type: enums.DiscountTypePercentage, Value: 10, MaxDiscount: amount(20000), MinPurchase: 50000, Active: true},
	{Code: "DISKON5K", Name: "Diskon Rp 5.000", Type: enums.DiscountTypeFixed, Value: 5000, MinPurchase: 25000, Active: true},
	{Code: "PROMOEXPIRED", Name: "Promo Lebaran", Type: enums.DiscountTypePercentage, Value: 20, MaxDiscount: amount(30000), Active: true,
		ValidFrom:  at(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		ValidUntil: at(time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC))},
}

// StaticSource serves the built-in demo promo codes.
type StaticSource struct {
	discounts []Discount
}

// NewStaticSource returns the demo codes, or the supplied ones when given.
func NewStaticSource(discounts ...Discount) *StaticSource {
	if len(discounts) == 0 {
		discounts = demoDiscounts
	}
	cp := make([]Discount, len(discounts))
	copy(cp, discounts)
	return &StaticSource{discounts: cp}
}

func (s *StaticSource) Lookup(_ context.Context, code string) (Discount, error) {
	code = NormalizeCode(code)
	for _, d := range s.discounts {
		if d.Code == code {
			return d, nil
		}
	}
	return Discount{}, notFound(code)
}

func (s *StaticSource) List(_ context.Context, activeOnly bool) ([]Discount, error) {
	out := make([]Discount, 0, len(s.discounts))
	for _, d := range s.discounts {
		if activeOnly && !d.Active {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
