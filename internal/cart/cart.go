package cart

import "github.com/angelmondragon/kasir-pos/internal/catalog"

// LineItem is one product row in the cart. Quantity is always at least 1.
type LineItem struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Category  string `json:"category"`
	ImageURL  string `json:"image_url,omitempty"`
	Quantity  int    `json:"quantity"`
	// Cost is copied from the product for margin checks.
	Cost *int64 `json:"-"`
}

// Subtotal returns price × quantity.
func (l LineItem) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart holds line items in the order products were first added. At most one
// line exists per product id. The zero value is an empty cart.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds one unit of p. An existing line is incremented in place;
// otherwise a new line is appended with quantity 1.
func (c *Cart) AddItem(p catalog.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, LineItem{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		ImageURL:  p.ImageURL,
		Quantity:  1,
		Cost:      p.Cost,
	})
}

// AdjustQuantity changes the quantity of productID by delta. A resulting
// quantity of zero or less drops the line. Unknown products are ignored.
func (c *Cart) AdjustQuantity(productID string, delta int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	next := c.items[i].Quantity + delta
	if next <= 0 {
		c.removeAt(i)
		return
	}
	c.items[i].Quantity = next
}

// RemoveItem drops the line for productID if present.
func (c *Cart) RemoveItem(productID string) {
	if i := c.index(productID); i >= 0 {
		c.removeAt(i)
	}
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Line returns the line for productID.
func (c *Cart) Line(productID string) (LineItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) index(productID string) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}
