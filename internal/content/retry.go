package content

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// newBackoff builds the fetch retry schedule: 1s, 2s, 4s... (2^k before the
// k-th retry), no jitter, stopping after maxRetries retries.
func newBackoff(maxRetries int) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = time.Duration(1<<uint(maxRetries)) * time.Second
	bo.MaxElapsedTime = 0
	bo.Reset()
	return backoff.WithMaxRetries(bo, uint64(maxRetries))
}

func retryFetch(ctx context.Context, maxRetries int, op func() error) error {
	return backoff.Retry(op, backoff.WithContext(newBackoff(maxRetries), ctx))
}
