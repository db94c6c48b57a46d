package api

import (
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/efrisio/go-efris-client/efris"
)

// withRetry re-runs fn on the gateway's transient rejections (server
// busy, cache limit). Validation failures and network errors pass
// through untouched.
func withRetry(fn func() error) error {
	return retry.Do(fn,
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(efris.IsRetryable),
		retry.LastErrorOnly(true),
	)
}
