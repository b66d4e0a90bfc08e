// Package ingest drives concurrent, isolated, resilient fan-out across
// weather providers and hands the results to the Normalizer.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/skypulsear/meteofusion/internal/normalize"
	"github.com/skypulsear/meteofusion/internal/sources"
)

// Config bundles the resilience knobs for every source the Ingestor fans out
// to.
type Config struct {
	MaxParallelism int           `mapstructure:"max_parallelism" yaml:"max_parallelism" json:"max_parallelism"`
	Retry          RetryPolicy   `mapstructure:"retry" yaml:"retry" json:"retry"`
	Breaker        BreakerConfig `mapstructure:"breaker" yaml:"breaker" json:"breaker"`
	// RatePerSecond caps outbound calls per source, guarding a merely-slow
	// provider from being hammered by retries.
	RatePerSecond float64 `mapstructure:"rate_per_second" yaml:"rate_per_second" json:"rate_per_second"`
}

// DefaultConfig mirrors the original fan-out defaults.
func DefaultConfig() Config {
	return Config{
		MaxParallelism: 4,
		Retry:          DefaultRetryPolicy(),
		Breaker:        DefaultBreakerConfig(),
		RatePerSecond:  5,
	}
}

// Ingestor fans a (lat, lon, hours) request out across the given sources,
// isolating each source's failures behind its own retry policy and circuit
// breaker.
type Ingestor struct {
	cfg        Config
	clients    map[sources.ID]ProviderClient
	normalizer *normalize.Normalizer
	registry   *Registry
	log        zerolog.Logger

	mu       sync.Mutex
	breakers map[sources.ID]*CircuitBreaker
	limiters map[sources.ID]*rate.Limiter
}

// New builds an Ingestor over the given provider clients.
func New(cfg Config, clients map[sources.ID]ProviderClient, normalizer *normalize.Normalizer, registry *Registry, log zerolog.Logger) *Ingestor {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Ingestor{
		cfg:        cfg,
		clients:    clients,
		normalizer: normalizer,
		registry:   registry,
		log:        log,
		breakers:   make(map[sources.ID]*CircuitBreaker),
		limiters:   make(map[sources.ID]*rate.Limiter),
	}
}

// Registry exposes the Ingestor's circuit breaker registry, for callers that
// want to report breaker health (e.g. an HTTP health endpoint).
func (in *Ingestor) Registry() *Registry {
	return in.registry
}

func (in *Ingestor) breakerFor(src sources.ID) *CircuitBreaker {
	in.mu.Lock()
	defer in.mu.Unlock()
	if cb, ok := in.breakers[src]; ok {
		return cb
	}
	cb := NewCircuitBreaker(string(src), in.cfg.Breaker)
	in.breakers[src] = cb
	in.registry.Register(string(src), cb)
	return cb
}

func (in *Ingestor) limiterFor(src sources.ID) *rate.Limiter {
	in.mu.Lock()
	defer in.mu.Unlock()
	if l, ok := in.limiters[src]; ok {
		return l
	}
	rps := in.cfg.RatePerSecond
	if rps <= 0 {
		rps = 5
	}
	l := rate.NewLimiter(rate.Limit(rps), 1)
	in.limiters[src] = l
	return l
}

// FetchForecast fetches forecast records from every requested source
// concurrently and returns the concatenation of all successfully normalized
// points, plus the per-source errors (if any) that prevented a source from
// contributing. An empty result is a valid successful outcome.
func (in *Ingestor) FetchForecast(ctx context.Context, lat, lon float64, hours int, wanted []sources.ID) ([]normalize.Point, []SourceError) {
	type outcome struct {
		points []normalize.Point
		err    *SourceError
	}
	results := make([]outcome, len(wanted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.maxParallelism())

	for i, src := range wanted {
		i, src := i, src
		g.Go(func() error {
			client, ok := in.clients[src]
			if !ok {
				results[i] = outcome{err: &SourceError{Source: string(src), Class: ClassInternalError, Err: errNoClient(src)}}
				return nil
			}

			var raw []normalize.RawRecord
			cb := in.breakerFor(src)
			limiter := in.limiterFor(src)

			callErr := cb.Call(gctx, func(callCtx context.Context) error {
				return WithRetry(callCtx, in.cfg.Retry, func(attemptCtx context.Context) error {
					if err := limiter.Wait(attemptCtx); err != nil {
						return err
					}
					records, err := client.GetForecast(attemptCtx, lat, lon, hours)
					if err != nil {
						return err
					}
					raw = records
					return nil
				})
			})

			if callErr != nil {
				in.log.Warn().Str("source", string(src)).Err(callErr).Msg("forecast fetch failed, source contributes no data")
				results[i] = outcome{err: toSourceError(src, callErr)}
				return nil
			}

			results[i] = outcome{points: in.normalizer.NormalizeBatch(raw, src, lat, lon)}
			return nil
		})
	}
	_ = g.Wait() // per-source errors never fail the group; they are captured in results.

	var points []normalize.Point
	var errs []SourceError
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, *r.err)
			continue
		}
		points = append(points, r.points...)
	}
	return points, errs
}

// FetchCurrent fetches a single current-conditions point per requested
// source.
func (in *Ingestor) FetchCurrent(ctx context.Context, lat, lon float64, wanted []sources.ID) ([]normalize.Point, []SourceError) {
	type outcome struct {
		point *normalize.Point
		err   *SourceError
	}
	results := make([]outcome, len(wanted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.maxParallelism())

	for i, src := range wanted {
		i, src := i, src
		g.Go(func() error {
			client, ok := in.clients[src]
			if !ok {
				results[i] = outcome{err: &SourceError{Source: string(src), Class: ClassInternalError, Err: errNoClient(src)}}
				return nil
			}

			var raw normalize.RawRecord
			cb := in.breakerFor(src)
			limiter := in.limiterFor(src)

			callErr := cb.Call(gctx, func(callCtx context.Context) error {
				return WithRetry(callCtx, in.cfg.Retry, func(attemptCtx context.Context) error {
					if err := limiter.Wait(attemptCtx); err != nil {
						return err
					}
					record, err := client.GetCurrent(attemptCtx, lat, lon)
					if err != nil {
						return err
					}
					raw = record
					return nil
				})
			})

			if callErr != nil {
				in.log.Warn().Str("source", string(src)).Err(callErr).Msg("current fetch failed, source contributes no data")
				results[i] = outcome{err: toSourceError(src, callErr)}
				return nil
			}
			if raw == nil {
				return nil
			}
			p := in.normalizer.NormalizeOne(raw, 0, src)
			results[i] = outcome{point: &p}
			return nil
		})
	}
	_ = g.Wait()

	var points []normalize.Point
	var errs []SourceError
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, *r.err)
			continue
		}
		if r.point != nil {
			points = append(points, *r.point)
		}
	}
	return points, errs
}

func (in *Ingestor) maxParallelism() int {
	if in.cfg.MaxParallelism <= 0 {
		return 4
	}
	return in.cfg.MaxParallelism
}

func toSourceError(src sources.ID, err error) *SourceError {
	var se *SourceError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, ErrCircuitOpen) {
		return &SourceError{Source: string(src), Class: ClassBreakerOpen, Err: err}
	}
	return &SourceError{Source: string(src), Class: ClassInternalError, Err: err}
}

func errNoClient(src sources.ID) error {
	return fmt.Errorf("no provider client registered for source %q", src)
}
