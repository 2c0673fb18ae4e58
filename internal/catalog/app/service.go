package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dwikikusuma/cart-service/internal/catalog/domain"
)

// Service turns raw catalog payloads into Product values. Records that fail
// validation are skipped and logged rather than failing the whole listing.
type Service struct {
	source Source
	log    *slog.Logger
}

func NewService(source Source, log *slog.Logger) *Service {
	return &Service{
		source: source,
		log:    log,
	}
}

// List fetches records from the source and parses them. The second return is
// the number of records skipped as malformed.
func (s *Service) List(ctx context.Context) ([]domain.Product, int, error) {
	raw, err := s.source.FetchRecords(ctx)
	if err != nil {
		return nil, 0, err
	}

	products, skipped := s.Decode(raw)
	return products, skipped, nil
}

// Decode parses each raw record, dropping malformed ones.
func (s *Service) Decode(raw []json.RawMessage) ([]domain.Product, int) {
	products := make([]domain.Product, 0, len(raw))
	skipped := 0

	for i, r := range raw {
		p, err := domain.DecodeProduct(r)
		if err != nil {
			skipped++
			s.log.Warn("skipping catalog record",
				slog.Int("index", i), slog.Any("err", err))
			continue
		}
		products = append(products, p)
	}

	return products, skipped
}
