package ingest

import (
	"context"

	"github.com/skypulsear/meteofusion/internal/normalize"
)

// ProviderClient is the contract every weather provider is wrapped behind.
// Implementations do not retry or trip breakers themselves; the Ingestor
// supplies that resilience uniformly.
type ProviderClient interface {
	// GetCurrent returns the current-conditions record for lat/lon, or a nil
	// record with a nil error if the provider legitimately has no data.
	GetCurrent(ctx context.Context, lat, lon float64) (normalize.RawRecord, error)
	// GetForecast returns up to `hours` of forecast records for lat/lon.
	GetForecast(ctx context.Context, lat, lon float64, hours int) ([]normalize.RawRecord, error)
}
