package app

import (
	"github.com/dwikikusuma/cart-service/internal/cart/domain"
)

// Persister writes the full cart snapshot to a durable slot and reads it back
// at startup. Implementations recover from malformed slots themselves: Load
// returns an empty collection rather than an error when the slot cannot be
// trusted, so corruption never reaches the UI.
type Persister interface {
	Save(items []domain.LineItem) error
	Load() ([]domain.LineItem, error)
}
