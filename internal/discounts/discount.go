package discounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
)

// Discount is a transaction-level promo code. For PERCENTAGE codes Value is a
// whole percent; for FIXED codes it is an amount in rupiah.
type Discount struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Type        enums.DiscountType `json:"type"`
	Value       int64              `json:"value"`
	MaxDiscount *int64             `json:"max_discount,omitempty"`
	MinPurchase int64              `json:"min_purchase"`
	UsageLimit  *int               `json:"usage_limit,omitempty"`
	UsageCount  int                `json:"usage_count"`
	ValidFrom   *time.Time         `json:"valid_from,omitempty"`
	ValidUntil  *time.Time         `json:"valid_until,omitempty"`
	Active      bool               `json:"active"`
}

// Source looks up promo codes.
type Source interface {
	Lookup(ctx context.Context, code string) (Discount, error)
	List(ctx context.Context, activeOnly bool) ([]Discount, error)
}

// NormalizeCode uppercases and trims a code typed by the cashier.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks that the code may be applied at now to a cart worth subtotal.
func (d Discount) Validate(now time.Time, subtotal int64) error {
	details := map[string]any{"code": d.Code}
	switch {
	case !d.Active:
		return pkgerrors.New(pkgerrors.CodeValidation, "discount is not active").WithDetails(details)
	case d.ValidFrom != nil && now.Before(*d.ValidFrom):
		return pkgerrors.New(pkgerrors.CodeValidation, "discount not yet valid").WithDetails(details)
	case d.ValidUntil != nil && now.After(*d.ValidUntil):
		return pkgerrors.New(pkgerrors.CodeValidation, "discount expired").WithDetails(details)
	case d.UsageLimit != nil && d.UsageCount >= *d.UsageLimit:
		return pkgerrors.New(pkgerrors.CodeValidation, "discount usage limit reached").WithDetails(details)
	case subtotal < d.MinPurchase:
		details["min_purchase"] = d.MinPurchase
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("minimum purchase Rp %d required", d.MinPurchase)).WithDetails(details)
	}
	return nil
}

func notFound(code string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found").WithDetails(map[string]any{"code": code})
}
