package catalog

import (
	"context"
	"strings"
)

// Category labels. CategoryAll is the sentinel meaning "no category filter".
const (
	CategoryAll      = "All"
	CategoryFood     = "Food"
	CategoryBeverage = "Beverage"
	CategorySnack    = "Snack"
	CategoryPromo    = "Promo"
)

var categories = []string{
	CategoryAll,
	CategoryFood,
	CategoryBeverage,
	CategorySnack,
	CategoryPromo,
}

// Product is an immutable catalog entry. Prices are whole rupiah.
type Product struct {
	ID       string `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
	Category string `json:"category"`
	ImageURL string `json:"image_url,omitempty"`
	// Cost is the unit cost used for margin protection. Never sent to clients.
	Cost *int64 `json:"-"`
}

// Provider serves the product list shown on the cashier screen.
type Provider interface {
	Products(ctx context.Context) ([]Product, error)
	Product(ctx context.Context, id string) (Product, error)
	Categories() []string
}

// Categories returns the fixed category list, "All" first.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Filter returns the products matching both the category and the search text,
// in catalog order. The search is a case-insensitive substring match on the
// product name; whitespace is significant. An empty search matches everything.
func Filter(products []Product, search, category string) []Product {
	needle := strings.ToLower(search)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != CategoryAll && p.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}
