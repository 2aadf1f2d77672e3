package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "geo:Москва", "Europe/Moscow", time.Hour))

	val, ok, err := m.Get(ctx, "geo:Москва")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Europe/Moscow", val)

	_, ok, err = m.Get(ctx, "geo:unknown")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries must read as misses")

	assert.Equal(t, 1, m.Flush(), "flush should reap the expired entry")
}

func TestMemory_NoTTLNeverExpires(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	assert.Equal(t, 0, m.Flush())

	val, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemory_Stats(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "a", "1", time.Hour)
	_, _, _ = m.Get(ctx, "a")
	_, _, _ = m.Get(ctx, "a")
	_, _, _ = m.Get(ctx, "missing")

	s := m.Stats()
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, int64(1), s.Sets)
	assert.Equal(t, 1, s.ItemCount)
	assert.InDelta(t, 2.0/3.0, s.HitRate(), 1e-9)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "geo:Алматы", Key("geo", "Алматы"))
	assert.Equal(t, "solo", Key("solo"))
	assert.Equal(t, "", Key())
}

func TestMemory_CloseIdempotent(t *testing.T) {
	m := NewMemory(time.Millisecond)
	m.Close()
	m.Close()
}
