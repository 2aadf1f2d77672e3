package cache

import (
	"context"
	"time"

	"github.com/astroluna/astroluna/internal/telemetry/metrics"
)

// Instrumented wraps a Store and counts hits and misses under a cache name.
type Instrumented struct {
	next Store
	m    *metrics.Registry
	name string
}

// Instrument decorates a store with hit and miss accounting. m may be nil.
func Instrument(next Store, m *metrics.Registry, name string) *Instrumented {
	return &Instrumented{next: next, m: m, name: name}
}

func (i *Instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	value, found, err := i.next.Get(ctx, key)
	if err == nil {
		if found {
			i.m.RecordCacheHit(i.name)
		} else {
			i.m.RecordCacheMiss(i.name)
		}
	}
	return value, found, err
}

func (i *Instrumented) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return i.next.Set(ctx, key, value, ttl)
}
