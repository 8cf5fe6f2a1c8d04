package ports

import (
	"context"
	"time"
)

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
}

// IdempotencyStore deduplicates replayed requests by caller-supplied key.
// Records expire after a TTL; a missing record means the key is fresh.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Reserve claims the key for an in-flight request. A live reservation
	// for the same key surfaces as domain.ErrConflict.
	Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte) error
	// Release drops a reservation whose request failed, so a retry under the
	// same key is not locked out until the TTL expires.
	Release(ctx context.Context, key string) error
}
