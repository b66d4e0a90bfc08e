package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxAttempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: maxAttempts, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2, Jitter: false}
}

func TestWithRetrySucceedsWithoutRetryingOnFirstSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		if calls < 3 {
			return transientErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAndReturnsLastError(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return transientErr()
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetrySkipsNonTransientImmediately(t *testing.T) {
	calls := 0
	nonTransient := &SourceError{Source: "test", Class: ClassProviderBadPayload, Err: errors.New("bad")}
	err := WithRetry(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return nonTransient
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-transient failures must not be retried")
}

func TestWithRetryDelayRespectsMaxDelay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, InitialDelay: time.Second, MaxDelay: 2 * time.Second, Multiplier: 10, Jitter: false}
	d := p.delay(3)
	assert.LessOrEqual(t, d, 2*time.Second)
}
