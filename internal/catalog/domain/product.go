package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var ErrMalformedProductData = errors.New("malformed product data")

// WideInt is a catalog identifier or stock count. Values can exceed 2^53, so
// it marshals to decimal text and never passes through a float. Unmarshalling
// accepts both quoted text and bare JSON numbers.
type WideInt uint64

func (w WideInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(w), 10))), nil
}

func (w *WideInt) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: wide integer %q", ErrMalformedProductData, s)
	}

	*w = WideInt(n)
	return nil
}

// Product is a catalog item snapshot. Constructed whole via ParseProduct and
// never mutated; a changed catalog entry is represented by a new Product.
// Nil pointer fields mean "absent", which is distinct from zero values.
type Product struct {
	ID                uint64
	CreatedAt         time.Time
	Name              *string
	Description       *string
	QuantityAvailable uint64
	Price             *decimal.Decimal
	Category          *string
	ImageURL          *string
	InStock           *bool
}

// Record is the transport and storage shape of a Product. Wide-integer fields
// are decimal text on the wire; everything else passes through as-is.
type Record struct {
	ID          WideInt          `json:"id"`
	CreatedAt   string           `json:"created_at"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Quantity    WideInt          `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"imageUrl"`
	InStock     *bool            `json:"inStock"`
}

// ParseProduct converts an external record into a Product. Identifier and
// quantity validation happens in WideInt during decoding; this adds timestamp
// and price checks.
func ParseProduct(rec Record) (Product, error) {
	createdAt, err := time.Parse(time.RFC3339, rec.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("%w: created_at %q", ErrMalformedProductData, rec.CreatedAt)
	}

	if rec.Price != nil && rec.Price.IsNegative() {
		return Product{}, fmt.Errorf("%w: negative price %s", ErrMalformedProductData, rec.Price)
	}

	return Product{
		ID:                uint64(rec.ID),
		CreatedAt:         createdAt,
		Name:              rec.Name,
		Description:       rec.Description,
		QuantityAvailable: uint64(rec.Quantity),
		Price:             rec.Price,
		Category:          rec.Category,
		ImageURL:          rec.ImageURL,
		InStock:           rec.InStock,
	}, nil
}

// DecodeProduct parses a raw JSON catalog record. Any decode failure reports
// ErrMalformedProductData so callers can skip the record.
func DecodeProduct(data []byte) (Product, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		if errors.Is(err, ErrMalformedProductData) {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("%w: %v", ErrMalformedProductData, err)
	}
	return ParseProduct(rec)
}

// Record returns the storage-safe form of the product.
func (p Product) Record() Record {
	return Record{
		ID:          WideInt(p.ID),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		Name:        p.Name,
		Description: p.Description,
		Quantity:    WideInt(p.QuantityAvailable),
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock,
	}
}

// IsAvailable reports whether the catalog explicitly marked the product in
// stock and there is at least one unit left.
func (p Product) IsAvailable() bool {
	return p.InStock != nil && *p.InStock && p.QuantityAvailable > 0
}

// FormattedPrice renders the price for display. An absent price is shown as
// unavailable even though aggregation treats it as zero.
func (p Product) FormattedPrice() string {
	if p.Price == nil {
		return "Price not available"
	}
	return "$" + p.Price.StringFixed(2)
}
