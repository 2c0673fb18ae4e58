package domain

import (
	catalog "github.com/dwikikusuma/cart-service/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// LineItem pairs a product snapshot with a positive quantity. The product is
// owned by the line item: the cart keeps showing the name and price from the
// moment of first add even if the catalog changes later.
type LineItem struct {
	Product  catalog.Product
	Quantity int64
}

// The operations below never mutate their input. Each returns a fresh slice,
// so a caller holding the previous snapshot always sees fully-old or
// fully-new state, never a partial update.

// AddItem merges product p into the collection. An existing line for the same
// id gets its quantity bumped by one and keeps its original product snapshot;
// otherwise a new line with quantity 1 is appended. Catalog stock is not
// checked here; that belongs to checkout.
func AddItem(items []LineItem, p catalog.Product) []LineItem {
	next := make([]LineItem, len(items), len(items)+1)
	copy(next, items)

	for i := range next {
		if next[i].Product.ID == p.ID {
			next[i].Quantity++
			return next
		}
	}

	return append(next, LineItem{Product: p, Quantity: 1})
}

// RemoveItem drops the line with the given product id. Removing an absent id
// returns an equivalent collection.
func RemoveItem(items []LineItem, productID uint64) []LineItem {
	next := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.Product.ID != productID {
			next = append(next, it)
		}
	}
	return next
}

// SetQuantity replaces the quantity of the line with the given product id.
// A quantity of zero or less removes the line. An absent id is left as-is;
// set never creates a line.
func SetQuantity(items []LineItem, productID uint64, quantity int64) []LineItem {
	if quantity <= 0 {
		return RemoveItem(items, productID)
	}

	next := make([]LineItem, len(items))
	copy(next, items)

	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = quantity
			break
		}
	}

	return next
}

// TotalItems is the sum of all line quantities.
func TotalItems(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of quantity times unit price over all lines. Lines
// whose product has no price count as zero here; display code shows those as
// unavailable instead.
func TotalPrice(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Product.Price == nil {
			continue
		}
		line := it.Product.Price.Mul(decimal.NewFromInt(it.Quantity))
		total = total.Add(line)
	}
	return total
}
