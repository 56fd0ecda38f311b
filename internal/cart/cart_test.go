package cart

import (
	"testing"

	"github.com/angelmondragon/kasir-pos/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	kopi  = catalog.Product{ID: "1", SKU: "DRK-001", Name: "Kopi Susu Gula Aren", Price: 18000, Category: catalog.CategoryBeverage}
	ayam  = catalog.Product{ID: "2", SKU: "FOD-001", Name: "Ayam Goreng Sambal Matah", Price: 25000, Category: catalog.CategoryFood}
	nasi  = catalog.Product{ID: "3", SKU: "FOD-002", Name: "Nasi Putih Pulen", Price: 5000, Category: catalog.CategoryFood}
	esteh = catalog.Product{ID: "4", SKU: "DRK-002", Name: "Es Teh Manis Jumbo", Price: 6000, Category: catalog.CategoryBeverage}
)

func productIDs(c *Cart) []string {
	var out []string
	for _, it := range c.Items() {
		out = append(out, it.ProductID)
	}
	return out
}

func TestAddItemAppendsThenIncrements(t *testing.T) {
	c := New()
	c.AddItem(kopi)
	c.AddItem(ayam)
	c.AddItem(kopi)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, int64(36000), items[0].Subtotal())
	assert.Equal(t, 3, c.ItemCount())
}

func TestAdjustQuantity(t *testing.T) {
	c := New()
	c.AddItem(kopi)
	c.AddItem(ayam)
	c.AddItem(nasi)

	c.AdjustQuantity("2", 4)
	line, ok := c.Line("2")
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, []string{"1", "2", "3"}, productIDs(c), "position preserved")

	c.AdjustQuantity("2", -5)
	assert.Equal(t, []string{"1", "3"}, productIDs(c), "zero quantity drops the line")

	c.AdjustQuantity("3", -10)
	assert.Equal(t, []string{"1"}, productIDs(c))

	c.AdjustQuantity("missing", 3)
	assert.Equal(t, []string{"1"}, productIDs(c), "unknown product is a no-op")
}

func TestRemoveItem(t *testing.T) {
	c := New()
	c.AddItem(kopi)
	c.AddItem(esteh)
	c.RemoveItem("missing")
	assert.Equal(t, []string{"1", "4"}, productIDs(c))

	c.RemoveItem("1")
	assert.Equal(t, []string{"4"}, productIDs(c))

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.ItemCount())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New()
	c.AddItem(kopi)
	items := c.Items()
	items[0].Quantity = 99
	line, _ := c.Line("1")
	assert.Equal(t, 1, line.Quantity)
}

// cartOp is one random mutation applied by the property tests.
type cartOp struct {
	kind    int
	product catalog.Product
	delta   int
}

func drawOps(t *rapid.T) []cartOp {
	products := []catalog.Product{kopi, ayam, nasi, esteh}
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) cartOp {
		return cartOp{
			kind:    rapid.IntRange(0, 2).Draw(t, "kind"),
			product: rapid.SampledFrom(products).Draw(t, "product"),
			delta:   rapid.IntRange(-4, 4).Draw(t, "delta"),
		}
	}), 0, 60).Draw(t, "ops")
}

func apply(c *Cart, op cartOp) {
	switch op.kind {
	case 0:
		c.AddItem(op.product)
	case 1:
		c.AdjustQuantity(op.product.ID, op.delta)
	default:
		c.RemoveItem(op.product.ID)
	}
}

func TestCartInvariantsHoldUnderAnyOperationSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New()
		for _, op := range drawOps(t) {
			apply(c, op)

			seen := map[string]bool{}
			for _, it := range c.Items() {
				if it.Quantity < 1 {
					t.Fatalf("line %s has quantity %d", it.ProductID, it.Quantity)
				}
				if seen[it.ProductID] {
					t.Fatalf("duplicate line for %s", it.ProductID)
				}
				seen[it.ProductID] = true
			}
		}
	})
}

func TestAddItemIncrementsCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New()
		for _, op := range drawOps(t) {
			apply(c, op)
		}
		p := rapid.SampledFrom([]catalog.Product{kopi, ayam, nasi, esteh}).Draw(t, "added")

		before := c.ItemCount()
		prev, had := c.Line(p.ID)
		order := productIDs(c)

		c.AddItem(p)

		if c.ItemCount() != before+1 {
			t.Fatalf("item count %d, want %d", c.ItemCount(), before+1)
		}
		line, _ := c.Line(p.ID)
		if had {
			if line.Quantity != prev.Quantity+1 {
				t.Fatalf("quantity %d, want %d", line.Quantity, prev.Quantity+1)
			}
			assert.Equal(t, order, productIDs(c))
		} else {
			assert.Equal(t, append(order, p.ID), productIDs(c))
		}
	})
}

func TestAddSequenceCountsPerProduct(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		adds := rapid.SliceOf(rapid.SampledFrom([]catalog.Product{kopi, ayam, nasi, esteh})).Draw(t, "adds")

		c := New()
		want := map[string]int{}
		for _, p := range adds {
			c.AddItem(p)
			want[p.ID]++
		}

		items := c.Items()
		if len(items) != len(want) {
			t.Fatalf("got %d lines, want %d", len(items), len(want))
		}
		for _, it := range items {
			if it.Quantity != want[it.ProductID] {
				t.Fatalf("product %s quantity %d, want %d", it.ProductID, it.Quantity, want[it.ProductID])
			}
		}
	})
}

func TestAdjustByFullOrMoreRemovesLine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		qty := rapid.IntRange(1, 20).Draw(t, "qty")
		extra := rapid.IntRange(0, 1).Draw(t, "extra")

		c := New()
		for i := 0; i < qty; i++ {
			c.AddItem(kopi)
		}
		c.AddItem(ayam)

		c.AdjustQuantity(kopi.ID, -qty-extra)

		if _, ok := c.Line(kopi.ID); ok {
			t.Fatalf("line survived adjust by %d", -qty-extra)
		}
		for _, it := range c.Items() {
			if it.Quantity <= 0 {
				t.Fatalf("stored non-positive quantity %d", it.Quantity)
			}
		}
	})
}

func TestAddThreeRemoveOneRoundTrip(t *testing.T) {
	c := New()
	for i := 0; i < 3; i++ {
		c.AddItem(kopi)
	}
	c.AdjustQuantity(kopi.ID, -1)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(36000), items[0].Subtotal())
}
