package cache

import (
	"context"
	"time"
)

// Cache is the shared TTL cache collaborator. The service token lives here so
// concurrent invocations (and, with the Redis backend, other processes) can
// reuse it instead of re-issuing.
//
// The cache is a pure performance optimization: callers must always be able
// to fall back to the authoritative persisted slot or to the provider.
type Cache interface {
	// Get returns the cached value or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
