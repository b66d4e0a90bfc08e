package ingest

import (
	"context"

	"github.com/skypulsear/meteofusion/internal/normalize"
)

// StubClient is a canned ProviderClient used to exercise multi-source
// fan-out without reaching a real weather provider, e.g. for the providers
// (windy, wrf-smn, meteosource) this engine does not implement a real
// client for.
type StubClient struct {
	Current  normalize.RawRecord
	Forecast []normalize.RawRecord
	Err      error
}

func (s *StubClient) GetCurrent(ctx context.Context, lat, lon float64) (normalize.RawRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Current, nil
}

func (s *StubClient) GetForecast(ctx context.Context, lat, lon float64, hours int) ([]normalize.RawRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if hours < len(s.Forecast) {
		return s.Forecast[:hours], nil
	}
	return s.Forecast, nil
}
