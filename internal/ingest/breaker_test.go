package ingest

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 3, RecoveryTimeout: 50 * time.Millisecond, ExpectedClass: ClassTransient}
}

func transientErr() error {
	return &SourceError{Source: "test", Class: ClassTransient, Err: errors.New("boom")}
}

func TestCircuitBreakerClosedStateAllowsSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test", testBreakerConfig())
	for i := 0; i < 5; i++ {
		err := cb.Call(context.Background(), func(context.Context) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, StateClosed, cb.State())
	}
}

func TestCircuitBreakerTripsAfterThreshold(t *testing.T) {
	cfg := testBreakerConfig()
	cb := NewCircuitBreaker("test", cfg)

	for i := 0; i < cfg.FailureThreshold-1; i++ {
		err := cb.Call(context.Background(), func(context.Context) error { return transientErr() })
		require.Error(t, err)
		assert.Equal(t, StateClosed, cb.State())
	}

	err := cb.Call(context.Background(), func(context.Context) error { return transientErr() })
	require.Error(t, err)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err = cb.Call(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "fn must not run while breaker is OPEN")
}

func TestCircuitBreakerUnexpectedClassDoesNotTrip(t *testing.T) {
	cfg := testBreakerConfig()
	cb := NewCircuitBreaker("test", cfg)
	otherClassErr := &SourceError{Source: "test", Class: ClassValidationError, Err: errors.New("bad payload")}

	for i := 0; i < cfg.FailureThreshold+2; i++ {
		err := cb.Call(context.Background(), func(context.Context) error { return otherClassErr })
		require.Error(t, err)
		assert.Equal(t, StateClosed, cb.State(), "only the expected class should count as a failure")
	}
}

func TestCircuitBreakerHalfOpenRecovers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cfg := BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 50 * time.Millisecond, ExpectedClass: ClassTransient}
		cb := NewCircuitBreaker("test", cfg)

		err := cb.Call(context.Background(), func(context.Context) error { return transientErr() })
		require.Error(t, err)
		assert.Equal(t, StateOpen, cb.State())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		err = cb.Call(context.Background(), func(context.Context) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cfg := BreakerConfig{FailureThreshold: 1, RecoveryTimeout: 50 * time.Millisecond, ExpectedClass: ClassTransient}
		cb := NewCircuitBreaker("test", cfg)

		_ = cb.Call(context.Background(), func(context.Context) error { return transientErr() })
		assert.Equal(t, StateOpen, cb.State())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		err := cb.Call(context.Background(), func(context.Context) error { return transientErr() })
		require.Error(t, err)
		assert.Equal(t, StateOpen, cb.State())
	})
}
