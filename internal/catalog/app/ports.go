package app

import (
	"context"
	"encoding/json"
)

// Source supplies raw catalog records. The fetching collaborator (HTTP
// client, fixture loader) implements it; this package only parses.
type Source interface {
	FetchRecords(ctx context.Context) ([]json.RawMessage, error)
}
