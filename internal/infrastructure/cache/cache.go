// Package cache provides the TTL key-value stores backing geocoder and
// timezone lookups: an in-process store with a cleanup janitor, and a Redis
// store for deployments that share lookups across instances. Both speak the
// same Store interface, so callers never know which one they got.
package cache

import (
	"context"
	"strings"
	"time"
)

// Store is a TTL-bounded key-value store for small serialized entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key and whether it was present and fresh.
	// A miss is not an error; the error reports transport trouble only.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// Key joins components into one deterministic cache key.
func Key(components ...string) string {
	return strings.Join(components, ":")
}
