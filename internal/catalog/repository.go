package catalog

import (
	"context"

	"github.com/angelmondragon/kasir-pos/internal/repo"
	"gorm.io/gorm"
)

type productRow struct {
	ID       string `gorm:"primaryKey"`
	SKU      string `gorm:"column:sku"`
	Name     string
	Price    int64
	Cost     *int64
	Stock    int
	Category string
	ImageURL string `gorm:"column:image_url"`
	Position int
}

func (productRow) TableName() string { return "products" }

func (r productRow) toProduct() Product {
	return Product{
		ID:       r.ID,
		SKU:      r.SKU,
		Name:     r.Name,
		Price:    r.Price,
		Stock:    r.Stock,
		Category: r.Category,
		ImageURL: r.ImageURL,
		Cost:     r.Cost,
	}
}

// Repository serves the catalog from the products table seeded by the migrations.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Products(ctx context.Context) ([]Product, error) {
	var rows []productRow
	if err := r.DB(ctx).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, repo.Translate(err, "products not found")
	}
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProduct())
	}
	return out, nil
}

func (r *Repository) Product(ctx context.Context, id string) (Product, error) {
	var row productRow
	if err := r.DB(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return Product{}, repo.Translate(err, "product not found")
	}
	return row.toProduct(), nil
}

func (r *Repository) Categories() []string {
	return Categories()
}
