package app

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dwikikusuma/cart-service/internal/cart/domain"
	catalog "github.com/dwikikusuma/cart-service/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type fakePersister struct {
	loaded  []domain.LineItem
	loadErr error
	saveErr error
	saves   [][]domain.LineItem
}

func (f *fakePersister) Save(items []domain.LineItem) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, items)
	return nil
}

func (f *fakePersister) Load() ([]domain.LineItem, error) {
	return f.loaded, f.loadErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProduct(t *testing.T, id uint64, price string) catalog.Product {
	t.Helper()

	p := catalog.Product{
		ID:        id,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if price != "" {
		d, err := decimal.NewFromString(price)
		if err != nil {
			t.Fatalf("bad price literal %q: %v", price, err)
		}
		p.Price = &d
	}
	return p
}

func TestStoreScenario(t *testing.T) {
	store := NewStore(&fakePersister{}, testLogger())
	a := testProduct(t, 1, "10.00")

	store.AddItem(a)
	store.AddItem(a)

	items := store.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", items)
	}
	if got := store.TotalPrice(); !got.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("TotalPrice = %s, want 20.00", got)
	}

	store.UpdateQuantity(a.ID, 5)
	if got := store.TotalPrice(); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("TotalPrice = %s, want 50.00", got)
	}
	if got := store.TotalItems(); got != 5 {
		t.Fatalf("TotalItems = %d, want 5", got)
	}

	store.RemoveItem(a.ID)
	if !store.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", store.Items())
	}
}

func TestStoreUniqueness(t *testing.T) {
	store := NewStore(&fakePersister{}, testLogger())

	for i := 0; i < 20; i++ {
		store.AddItem(testProduct(t, uint64(i%4), "1"))
	}

	seen := make(map[uint64]bool)
	for _, it := range store.Items() {
		if seen[it.Product.ID] {
			t.Fatalf("duplicate line for product %d", it.Product.ID)
		}
		seen[it.Product.ID] = true
	}
	if got := store.TotalItems(); got != 20 {
		t.Fatalf("TotalItems = %d, want 20", got)
	}
}

func TestStoreRemoveIdempotence(t *testing.T) {
	store := NewStore(&fakePersister{}, testLogger())
	store.AddItem(testProduct(t, 1, "10"))
	store.AddItem(testProduct(t, 2, "5"))

	store.RemoveItem(1)
	after := store.Items()

	store.RemoveItem(1)
	if len(store.Items()) != len(after) {
		t.Fatalf("second remove changed the cart: %+v", store.Items())
	}
}

func TestStoreUpdateQuantity(t *testing.T) {
	t.Run("zero and negative equal remove", func(t *testing.T) {
		for _, qty := range []int64{0, -5} {
			store := NewStore(&fakePersister{}, testLogger())
			store.AddItem(testProduct(t, 1, "10"))
			store.UpdateQuantity(1, qty)
			if !store.IsEmpty() {
				t.Fatalf("quantity %d should remove the line", qty)
			}
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		store := NewStore(&fakePersister{}, testLogger())
		store.AddItem(testProduct(t, 1, "10"))
		store.UpdateQuantity(42, 3)
		if len(store.Items()) != 1 || store.TotalItems() != 1 {
			t.Fatalf("update on unknown id changed the cart: %+v", store.Items())
		}
	})
}

func TestStorePersistsEveryMutation(t *testing.T) {
	persist := &fakePersister{}
	store := NewStore(persist, testLogger())

	store.AddItem(testProduct(t, 1, "10"))
	store.UpdateQuantity(1, 3)
	store.RemoveItem(1)
	store.ClearCart()

	if len(persist.saves) != 4 {
		t.Fatalf("expected 4 saves, got %d", len(persist.saves))
	}

	last := persist.saves[len(persist.saves)-1]
	if len(last) != 0 {
		t.Fatalf("final snapshot should be empty, got %+v", last)
	}
}

func TestStoreHydration(t *testing.T) {
	t.Run("preloaded slot", func(t *testing.T) {
		persist := &fakePersister{
			loaded: []domain.LineItem{{Product: testProduct(t, 7, "2.50"), Quantity: 4}},
		}
		store := NewStore(persist, testLogger())

		if store.TotalItems() != 4 {
			t.Fatalf("TotalItems = %d, want 4", store.TotalItems())
		}
		if got := store.TotalPrice(); !got.Equal(decimal.RequireFromString("10.00")) {
			t.Fatalf("TotalPrice = %s, want 10.00", got)
		}
	})

	t.Run("load error falls back to empty", func(t *testing.T) {
		persist := &fakePersister{loadErr: errors.New("disk on fire")}
		store := NewStore(persist, testLogger())
		if !store.IsEmpty() {
			t.Fatalf("expected empty cart after load failure")
		}
	})
}

func TestStoreSaveFailureKeepsMutation(t *testing.T) {
	persist := &fakePersister{saveErr: errors.New("disk full")}
	store := NewStore(persist, testLogger())

	store.AddItem(testProduct(t, 1, "10"))
	if store.TotalItems() != 1 {
		t.Fatalf("in-memory state should survive a failed save")
	}
}
