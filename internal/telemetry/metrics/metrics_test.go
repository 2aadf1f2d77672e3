package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_IndependentInstances(t *testing.T) {
	// Two registries must not collide on registration.
	a := NewRegistry()
	b := NewRegistry()
	a.RecordInstantPath("tz")
	b.RecordInstantPath("naive")

	families, err := a.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRegistry_CacheHitRatio(t *testing.T) {
	r := NewRegistry()
	r.RecordCacheHit("geocode")
	r.RecordCacheHit("geocode")
	r.RecordCacheMiss("geocode")

	families, err := r.Gather()
	require.NoError(t, err)

	var ratio float64
	found := false
	for _, f := range families {
		if f.GetName() == "astroluna_cache_hit_ratio" {
			ratio = f.GetMetric()[0].GetGauge().GetValue()
			found = true
		}
	}
	require.True(t, found, "ratio gauge should be exported")
	assert.InDelta(t, 2.0/3.0, ratio, 1e-9)
}

func TestRegistry_TimerRecordsBothCollectors(t *testing.T) {
	r := NewRegistry()
	timer := r.StartTimer("natal")
	timer.Stop("success")

	families, err := r.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["astroluna_chart_duration_seconds"])
	assert.True(t, names["astroluna_charts_total"])
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry
	r.StartTimer("natal").Stop("success")
	r.RecordBodyUnresolved("Moon")
	r.RecordInstantPath("naive")
	r.RecordGeocode("hit")
	r.RecordCacheHit("geocode")
	r.RecordCacheMiss("geocode")
	r.RecordBotUpdate("message")
	r.RecordBotSend("text", "success")
	r.SessionStarted()
	r.SessionEnded()
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.RecordBodyUnresolved("Saturn")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}
