package app

import (
	"log/slog"
	"sync"

	"github.com/dwikikusuma/cart-service/internal/cart/domain"
	catalog "github.com/dwikikusuma/cart-service/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// Store is the single cart instance for an application session. Construct it
// once in main and inject it into consumers. Every mutation installs a brand
// new snapshot and synchronously writes it through the persister before
// returning, so a caller observing a mutation's return can rely on the
// durable slot reflecting the new state.
type Store struct {
	mu      sync.RWMutex
	items   []domain.LineItem
	persist Persister
	log     *slog.Logger
}

// NewStore builds the store and hydrates it from the persister before
// returning, so no collaborator can observe a partially-hydrated cart.
func NewStore(persist Persister, log *slog.Logger) *Store {
	s := &Store{
		persist: persist,
		log:     log,
	}

	items, err := persist.Load()
	if err != nil {
		log.Error("cart hydration failed, starting empty", slog.Any("err", err))
		items = nil
	}
	s.items = items

	return s
}

// AddItem merges the product into the cart: +1 on an existing line (keeping
// the snapshot from the first add), or a new line with quantity 1.
func (s *Store) AddItem(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = domain.AddItem(s.items, p)
	s.save()
}

// RemoveItem drops the line for the given product id; absent ids are a
// silent no-op.
func (s *Store) RemoveItem(productID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = domain.RemoveItem(s.items, productID)
	s.save()
}

// UpdateQuantity sets the absolute quantity for the given product id.
// Zero or negative removes the line; an unknown id is a no-op.
func (s *Store) UpdateQuantity(productID uint64, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = domain.SetQuantity(s.items, productID, quantity)
	s.save()
}

// ClearCart empties the cart unconditionally.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.save()
}

// Items returns the current snapshot in insertion order. The slice is never
// mutated in place, so callers may hold it across further mutations.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

func (s *Store) TotalItems() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.TotalItems(s.items)
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.TotalPrice(s.items)
}

func (s *Store) IsEmpty() bool {
	return s.TotalItems() == 0
}

// save writes the current snapshot through the persister. A write failure is
// logged and the in-memory state stands; the next successful mutation
// rewrites the full snapshot.
func (s *Store) save() {
	if err := s.persist.Save(s.items); err != nil {
		s.log.Error("cart save failed", slog.Any("err", err))
	}
}
