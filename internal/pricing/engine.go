package pricing

import (
	"errors"
	"fmt"

	"github.com/angelmondragon/kasir-pos/internal/cart"
	"github.com/angelmondragon/kasir-pos/internal/discounts"
	"github.com/angelmondragon/kasir-pos/internal/loyalty"
	"github.com/angelmondragon/kasir-pos/pkg/config"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrMarginTooLow marks a breakdown rejected by margin protection.
var ErrMarginTooLow = errors.New("margin below minimum")

var hundred = decimal.NewFromInt(100)

// Rules are the store-wide pricing settings.
type Rules struct {
	TaxRate            decimal.Decimal // fraction, 0.11 for 11%
	TaxInclusive       bool
	PointsPerAmount    int64
	PointValue         int64
	MaxDiscountPercent decimal.Decimal
	MinMarginPercent   decimal.Decimal
}

// RulesFromConfig reads the checkout settings.
func RulesFromConfig(cfg config.CheckoutConfig) Rules {
	return Rules{
		TaxRate:            cfg.TaxRate(),
		TaxInclusive:       cfg.TaxInclusive,
		PointsPerAmount:    cfg.PointsPerAmount,
		PointValue:         cfg.PointValue,
		MaxDiscountPercent: cfg.MaxDiscountPercent,
		MinMarginPercent:   cfg.MinMarginPercent,
	}
}

// Adjustments are the per-sale inputs on top of the cart lines.
type Adjustments struct {
	Discount       *discounts.Discount
	PointsRedeemed int64
	Tier           enums.MemberType
	SkipMargin     bool
}

// Breakdown is the full receipt calculation. Amounts are whole rupiah.
type Breakdown struct {
	GrossSales            int64           `json:"gross_sales"`
	Discount              int64           `json:"discount"`
	SubtotalAfterDiscount int64           `json:"subtotal_after_discount"`
	LoyaltyRedemption     int64           `json:"loyalty_redemption"`
	AmountBeforeTax       int64           `json:"amount_before_tax"`
	DPP                   int64           `json:"dpp"`
	TaxRatePercent        decimal.Decimal `json:"tax_rate_percent"`
	TaxInclusive          bool            `json:"tax_inclusive"`
	Tax                   int64           `json:"tax"`
	GrandTotal            int64           `json:"grand_total"`
	PointsEarned          int64           `json:"points_earned"`
	ItemCount             int             `json:"item_count"`
}

// Engine computes receipts in a fixed order: gross, discount, loyalty
// redemption, tax, grand total.
type Engine struct {
	rules Rules
}

// NewEngine validates rules and returns an engine.
func NewEngine(rules Rules) (*Engine, error) {
	switch {
	case rules.TaxRate.IsNegative():
		return nil, fmt.Errorf("tax rate must not be negative")
	case rules.PointsPerAmount < 0 || rules.PointValue < 0:
		return nil, fmt.Errorf("loyalty settings must not be negative")
	case rules.MaxDiscountPercent.IsNegative() || rules.MaxDiscountPercent.GreaterThan(hundred):
		return nil, fmt.Errorf("max discount percent must be within 0..100")
	}
	return &Engine{rules: rules}, nil
}

// Rules returns the settings the engine was built with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Totals is ComputeTotals with the engine's tax rate. In inclusive mode the
// tax is carved out of the subtotal and the total equals the subtotal.
func (e *Engine) Totals(items []cart.LineItem) Totals {
	t := ComputeTotals(items, e.rules.TaxRate)
	if e.rules.TaxInclusive {
		t.Tax = t.Subtotal - e.netOfTax(t.Subtotal)
		t.Total = t.Subtotal
	}
	return t
}

// netOfTax is the tax base (DPP) inside an inclusive amount.
func (e *Engine) netOfTax(amount int64) int64 {
	return roundAmount(decimal.NewFromInt(amount).Div(decimal.NewFromInt(1).Add(e.rules.TaxRate)))
}

// Breakdown prices the lines with the given adjustments.
func (e *Engine) Breakdown(items []cart.LineItem, adj Adjustments) (Breakdown, error) {
	var b Breakdown
	for _, it := range items {
		b.GrossSales += it.Subtotal()
		b.ItemCount += it.Quantity
	}

	b.Discount = e.discountAmount(b.GrossSales, adj.Discount)
	b.SubtotalAfterDiscount = b.GrossSales - b.Discount

	redemption := adj.PointsRedeemed * e.rules.PointValue
	if redemption < 0 {
		redemption = 0
	}
	if redemption > b.SubtotalAfterDiscount {
		redemption = b.SubtotalAfterDiscount
	}
	b.LoyaltyRedemption = redemption
	b.AmountBeforeTax = b.SubtotalAfterDiscount - b.LoyaltyRedemption

	if !adj.SkipMargin {
		if err := e.checkMargin(items, b); err != nil {
			return Breakdown{}, err
		}
	}

	amount := decimal.NewFromInt(b.AmountBeforeTax)
	b.TaxRatePercent = e.rules.TaxRate.Mul(hundred)
	b.TaxInclusive = e.rules.TaxInclusive
	if e.rules.TaxInclusive {
		b.DPP = e.netOfTax(b.AmountBeforeTax)
		b.Tax = b.AmountBeforeTax - b.DPP
		b.GrandTotal = b.AmountBeforeTax
	} else {
		b.DPP = b.AmountBeforeTax
		b.Tax = roundAmount(amount.Mul(e.rules.TaxRate))
		b.GrandTotal = b.AmountBeforeTax + b.Tax
	}

	b.PointsEarned = e.pointsEarned(b.AmountBeforeTax, adj.Tier)
	return b, nil
}

func (e *Engine) discountAmount(gross int64, d *discounts.Discount) int64 {
	if d == nil || gross <= 0 {
		return 0
	}
	sub := decimal.NewFromInt(gross)

	var value int64
	switch d.Type {
	case enums.DiscountTypePercentage:
		value = roundAmount(sub.Mul(decimal.NewFromInt(d.Value)).Div(hundred))
		if d.MaxDiscount != nil && value > *d.MaxDiscount {
			value = *d.MaxDiscount
		}
	case enums.DiscountTypeFixed:
		value = min(d.Value, gross)
	}

	ceiling := roundAmount(sub.Mul(e.rules.MaxDiscountPercent).Div(hundred))
	return max(min(value, ceiling), 0)
}

// checkMargin rejects sales whose net revenue leaves less than the minimum
// margin over cost. Lines without a cost count as zero cost; the check is
// skipped only when no line carries any cost.
func (e *Engine) checkMargin(items []cart.LineItem, b Breakdown) error {
	if len(items) == 0 || b.GrossSales <= 0 {
		return nil
	}
	var cost int64
	for _, it := range items {
		if it.Cost != nil {
			cost += *it.Cost * int64(it.Quantity)
		}
	}
	if cost == 0 {
		return nil
	}

	margin := decimal.NewFromInt(b.AmountBeforeTax - cost).
		Div(decimal.NewFromInt(b.GrossSales)).
		Mul(hundred)
	if margin.LessThan(e.rules.MinMarginPercent) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrMarginTooLow,
			fmt.Sprintf("margin %s%% below minimum %s%%", margin.StringFixed(2), e.rules.MinMarginPercent.String())).
			WithDetails(map[string]any{
				"margin_percent":     margin.StringFixed(2),
				"min_margin_percent": e.rules.MinMarginPercent.String(),
			})
	}
	return nil
}

func (e *Engine) pointsEarned(amount int64, tier enums.MemberType) int64 {
	if e.rules.PointsPerAmount <= 0 || amount <= 0 {
		return 0
	}
	base := amount / e.rules.PointsPerAmount
	return decimal.NewFromInt(base).Mul(loyalty.Multiplier(tier)).IntPart()
}
