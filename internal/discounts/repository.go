package discounts

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/kasir-pos/internal/repo"
	"github.com/angelmondragon/kasir-pos/pkg/enums"
	"gorm.io/gorm"
)

type discountRow struct {
	Code        string `gorm:"primaryKey"`
	Name        string
	Type        string
	Value       int64
	MaxDiscount *int64
	MinPurchase int64
	UsageLimit  *int
	UsageCount  int
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	IsActive    bool
}

func (discountRow) TableName() string { return "discounts" }

func (r discountRow) toDiscount() Discount {
	return Discount{
		Code:        r.Code,
		Name:        r.Name,
		Type:        enums.DiscountType(r.Type),
		Value:       r.Value,
		MaxDiscount: r.MaxDiscount,
		MinPurchase: r.MinPurchase,
		UsageLimit:  r.UsageLimit,
		UsageCount:  r.UsageCount,
		ValidFrom:   r.ValidFrom,
		ValidUntil:  r.ValidUntil,
		Active:      r.IsActive,
	}
}

// Repository reads promo codes from the discounts table.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Lookup(ctx context.Context, code string) (Discount, error) {
	code = NormalizeCode(code)
	var row discountRow
	if err := r.DB(ctx).Where("code = ?", code).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Discount{}, notFound(code)
		}
		return Discount{}, repo.Translate(err, "discount code not found")
	}
	return row.toDiscount(), nil
}

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]Discount, error) {
	query := r.DB(ctx).Order("code ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []discountRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, repo.Translate(err, "discounts not found")
	}
	out := make([]Discount, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDiscount())
	}
	return out, nil
}
