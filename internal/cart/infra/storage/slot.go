package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dwikikusuma/cart-service/internal/cart/domain"
	catalog "github.com/dwikikusuma/cart-service/internal/catalog/domain"
)

// SlotKey names the durable slot holding the serialized cart. Bump it when
// the persisted layout changes incompatibly; old slots are then ignored and
// overwritten by the next save.
const SlotKey = "cart-storage"

// ErrMalformedState marks a slot whose contents do not match the expected
// layout. It never leaves this package: Load recovers by returning an empty
// cart.
var ErrMalformedState = errors.New("malformed persisted cart state")

// Slot is the durable key-value slot behind the cart store, backed by a JSON
// file that is atomically rewritten on every save.
type Slot struct {
	path string
	log  *slog.Logger
}

func NewSlot(dir string, log *slog.Logger) *Slot {
	return &Slot{
		path: filepath.Join(dir, SlotKey+".json"),
		log:  log,
	}
}

// persistedLine is one cart line on disk: the product in its decimal-text
// record form plus a plain-number quantity.
type persistedLine struct {
	Product  catalog.Record `json:"product"`
	Quantity int64          `json:"quantity"`
}

type persistedState struct {
	// Pointer so that a slot without an items field is distinguishable from
	// an empty cart and treated as malformed.
	Items *[]persistedLine `json:"items"`
}

// Save serializes the full collection to the slot. The write goes through a
// temp file and rename so a crash mid-write cannot leave a torn slot behind.
func (s *Slot) Save(items []domain.LineItem) error {
	lines := make([]persistedLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, persistedLine{
			Product:  it.Product.Record(),
			Quantity: it.Quantity,
		})
	}

	data, err := json.Marshal(persistedState{Items: &lines})
	if err != nil {
		return fmt.Errorf("encode cart state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cart state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("install cart state: %w", err)
	}

	return nil
}

// Load reads the slot and reconstructs the cart. An absent slot yields an
// empty cart. A malformed slot also yields an empty cart: the corruption is
// logged for diagnostics and the slot is overwritten by the next save, so
// startup never fails on bad persisted state.
func (s *Slot) Load() ([]domain.LineItem, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		s.log.Warn("cart slot unreadable, starting empty",
			slog.String("path", s.path), slog.Any("err", err))
		return nil, nil
	}

	items, err := decode(data)
	if err != nil {
		s.log.Warn("cart slot malformed, starting empty",
			slog.String("path", s.path), slog.Any("err", err))
		return nil, nil
	}

	return items, nil
}

func decode(data []byte) ([]domain.LineItem, error) {
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if state.Items == nil {
		return nil, fmt.Errorf("%w: missing items", ErrMalformedState)
	}

	items := make([]domain.LineItem, 0, len(*state.Items))
	for i, line := range *state.Items {
		p, err := catalog.ParseProduct(line.Product)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedState, i, err)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d: quantity %d", ErrMalformedState, i, line.Quantity)
		}
		items = append(items, domain.LineItem{Product: p, Quantity: line.Quantity})
	}

	return items, nil
}
