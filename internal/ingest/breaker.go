package ingest

import (
	"context"
	"sync"
	"time"
)

// BreakerState is the circuit breaker's current state.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "CLOSED"
	}
}

// BreakerConfig controls when a CircuitBreaker trips and how long it stays
// open before allowing a trial call through.
type BreakerConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold" yaml:"failure_threshold" json:"failure_threshold"`
	RecoveryTimeout  time.Duration `mapstructure:"recovery_timeout" yaml:"recovery_timeout" json:"recovery_timeout"`
	// ExpectedClass is the only ErrorClass that counts towards tripping the
	// breaker; any other class propagates without affecting state.
	ExpectedClass ErrorClass `mapstructure:"expected_class" yaml:"expected_class" json:"expected_class"`
}

// DefaultBreakerConfig mirrors the original circuit breaker's defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		ExpectedClass:    ClassTransient,
	}
}

// CircuitBreaker guards a single source's calls. All state reads and
// mutations are serialized behind mu, since the breaker is shared process-wide
// state accessed by concurrent fan-out goroutines.
type CircuitBreaker struct {
	name string
	cfg  BreakerConfig

	mu              sync.Mutex
	state           BreakerState
	failureCount    int
	lastFailureTime time.Time
}

// NewCircuitBreaker builds a breaker starting in the CLOSED state.
func NewCircuitBreaker(name string, cfg BreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{name: name, cfg: cfg, state: StateClosed}
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Call invokes fn if the breaker allows it, and records the outcome. It
// returns ErrCircuitOpen without invoking fn when the breaker is OPEN and the
// recovery timeout has not yet elapsed.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn(ctx)

	if err == nil {
		cb.onSuccess()
		return nil
	}

	if classOf(err) != cb.cfg.ExpectedClass {
		// Not the class this breaker watches: propagate without affecting state.
		return err
	}
	cb.onFailure()
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.lastFailureTime) >= cb.cfg.RecoveryTimeout {
			cb.state = StateHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = StateClosed
}

func (cb *CircuitBreaker) onFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = time.Now()
	if cb.state == StateHalfOpen || cb.failureCount >= cb.cfg.FailureThreshold {
		cb.state = StateOpen
	}
}

// Reset forces the breaker back to CLOSED with a zeroed failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failureCount = 0
}
