package catalog

import (
	"context"

	pkgerrors "github.com/angelmondragon/kasir-pos/pkg/errors"
)

func cost(v int64) *int64 { return &v }

var demoProducts = []Product{
	{ID: "1", SKU: "DRK-001", Name: "Kopi Susu Gula Aren", Price: 18000, Stock: 100, Category: CategoryBeverage, Cost: cost(8000),
		ImageURL: "https://images.unsplash.com/photo-1461023058943-07fcbe16d735?w=200&h=200&fit=crop"},
	{ID: "2", SKU: "FOD-001", Name: "Ayam Goreng Sambal Matah", Price: 25000, Stock: 50, Category: CategoryFood, Cost: cost(14000),
		ImageURL: "https://images.unsplash.com/photo-1632778149955-e80f8ceca2e8?w=200&h=200&fit=crop"},
	{ID: "3", SKU: "FOD-002", Name: "Nasi Putih Pulen", Price: 5000, Stock: 200, Category: CategoryFood, Cost: cost(2000),
		ImageURL: "https://images.unsplash.com/photo-1516684732162-798a0062be99?w=200&h=200&fit=crop"},
	{ID: "4", SKU: "DRK-002", Name: "Es Teh Manis Jumbo", Price: 6000, Stock: 150, Category: CategoryBeverage, Cost: cost(2000),
		ImageURL: "https://images.unsplash.com/photo-1556679343-c7306c1976bc?w=200&h=200&fit=crop"},
	{ID: "5", SKU: "SNK-001", Name: "Pisang Goreng Keju", Price: 15000, Stock: 40, Category: CategorySnack, Cost: cost(7000),
		ImageURL: "https://images.unsplash.com/photo-1528735602780-2552fd46c7af?w=200&h=200&fit=crop"},
	{ID: "6", SKU: "FOD-003", Name: "Mie Goreng Spesial", Price: 22000, Stock: 80, Category: CategoryFood, Cost: cost(11000),
		ImageURL: "https://images.unsplash.com/photo-1585032226651-759b368d7246?w=200&h=200&fit=crop"},
	{ID: "7", SKU: "SNK-002", Name: "Dimsum Ayam (4 pcs)", Price: 16000, Stock: 60, Category: CategorySnack, Cost: cost(8500),
		ImageURL: "https://images.unsplash.com/photo-1496116218417-1a781b1c416c?w=200&h=200&fit=crop"},
	{ID: "8", SKU: "DRK-003", Name: "Jus Alpukat", Price: 15000, Stock: 30, Category: CategoryBeverage, Cost: cost(7500),
		ImageURL: "https://images.unsplash.com/photo-1623065422902-30a2d299bbe4?w=200&h=200&fit=crop"},
}

// StaticProvider serves the built-in demo catalog.
type StaticProvider struct {
	products []Product
}

// NewStaticProvider returns the demo catalog, or the supplied products when given.
func NewStaticProvider(products ...Product) *StaticProvider {
	if len(products) == 0 {
		products = demoProducts
	}
	cp := make([]Product, len(products))
	copy(cp, products)
	return &StaticProvider{products: cp}
}

func (s *StaticProvider) Products(context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *StaticProvider) Product(_ context.Context, id string) (Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"product_id": id})
}

func (s *StaticProvider) Categories() []string {
	return Categories()
}
