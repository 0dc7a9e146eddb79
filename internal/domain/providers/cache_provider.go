package providers

import "context"

// CacheProvider defines the interface for caching operations. The search
// pipeline uses it to memoize oracle interpretations; missing or failing
// cache backends must only cost latency, never correctness.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration; expirationSeconds <= 0
	// means no expiry
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error
}
