// Package metrics exposes the service's Prometheus instrumentation: chart
// computation counts and latencies, per-body resolution failures, instant
// conversion paths, geocoder traffic and bot activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"
)

// Registry holds all AstroLuna metrics. Construct with NewRegistry; the
// collectors live in a private Prometheus registry so multiple instances
// never collide.
type Registry struct {
	reg *prometheus.Registry

	ChartDuration *prometheus.HistogramVec
	ChartsTotal   *prometheus.CounterVec

	BodiesUnresolved *prometheus.CounterVec
	InstantPath      *prometheus.CounterVec

	GeocodeLookups *prometheus.CounterVec
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	CacheHitRatio  prometheus.Gauge

	BotUpdates     *prometheus.CounterVec
	BotSends       *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// Cache types tracked for the hit ratio gauge.
var cacheTypes = []string{"geocode"}

// NewRegistry creates and registers all collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		ChartDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astroluna_chart_duration_seconds",
				Help:    "Duration of chart computations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"op", "result"},
		),
		ChartsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroluna_charts_total",
				Help: "Total chart computations by operation and result",
			},
			[]string{"op", "result"},
		),
		BodiesUnresolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroluna_bodies_unresolved_total",
				Help: "Total per-body oracle failures contained as unresolved positions",
			},
			[]string{"body"},
		),
		InstantPath: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroluna_instant_path_total",
				Help: "Birth instant conversions by path (tz or naive)",
			},
			[]string{"path"},
		),
		GeocodeLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroluna_geocode_lookups_total",
				Help: "Geocoder lookups by outcome",
			},
			[]string{"outcome"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroluna_cache_hits_total",
				Help: "Cache hits by cache type",
			},
			[]string{"cache_type"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroluna_cache_misses_total",
				Help: "Cache misses by cache type",
			},
			[]string{"cache_type"},
		),
		CacheHitRatio: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "astroluna_cache_hit_ratio",
				Help: "Current cache hit ratio (0.0 to 1.0)",
			},
		),
		BotUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroluna_bot_updates_total",
				Help: "Incoming bot updates by kind",
			},
			[]string{"kind"},
		),
		BotSends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astroluna_bot_sends_total",
				Help: "Outgoing bot messages by kind and result",
			},
			[]string{"kind", "result"},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "astroluna_bot_sessions_active",
				Help: "Bot dialogues currently waiting for user input",
			},
		),
	}

	r.reg.MustRegister(
		r.ChartDuration,
		r.ChartsTotal,
		r.BodiesUnresolved,
		r.InstantPath,
		r.GeocodeLookups,
		r.CacheHits,
		r.CacheMisses,
		r.CacheHitRatio,
		r.BotUpdates,
		r.BotSends,
		r.ActiveSessions,
	)
	return r
}

// Timer tracks one chart computation.
type Timer struct {
	metrics *Registry
	op      string
	start   time.Time
}

// StartTimer begins timing a chart operation. Nil-safe.
func (r *Registry) StartTimer(op string) *Timer {
	if r == nil {
		return nil
	}
	return &Timer{metrics: r, op: op, start: time.Now()}
}

// Stop completes the timing and records the outcome.
func (t *Timer) Stop(result string) {
	if t == nil {
		return
	}
	duration := time.Since(t.start)
	t.metrics.ChartDuration.WithLabelValues(t.op, result).Observe(duration.Seconds())
	t.metrics.ChartsTotal.WithLabelValues(t.op, result).Inc()

	log.Debug().
		Str("op", t.op).
		Str("result", result).
		Dur("duration", duration).
		Msg("chart computation finished")
}

// RecordBodyUnresolved counts an oracle failure contained for one body.
func (r *Registry) RecordBodyUnresolved(body string) {
	if r == nil {
		return
	}
	r.BodiesUnresolved.WithLabelValues(body).Inc()
}

// RecordInstantPath counts which conversion path produced the instant.
func (r *Registry) RecordInstantPath(path string) {
	if r == nil {
		return
	}
	r.InstantPath.WithLabelValues(path).Inc()
}

// RecordGeocode counts a geocoder lookup outcome.
func (r *Registry) RecordGeocode(outcome string) {
	if r == nil {
		return
	}
	r.GeocodeLookups.WithLabelValues(outcome).Inc()
}

// RecordCacheHit records a hit for the cache type and refreshes the ratio.
func (r *Registry) RecordCacheHit(cacheType string) {
	if r == nil {
		return
	}
	r.CacheHits.WithLabelValues(cacheType).Inc()
	r.updateCacheHitRatio()
}

// RecordCacheMiss records a miss for the cache type and refreshes the ratio.
func (r *Registry) RecordCacheMiss(cacheType string) {
	if r == nil {
		return
	}
	r.CacheMisses.WithLabelValues(cacheType).Inc()
	r.updateCacheHitRatio()
}

// RecordBotUpdate counts an incoming Telegram update.
func (r *Registry) RecordBotUpdate(kind string) {
	if r == nil {
		return
	}
	r.BotUpdates.WithLabelValues(kind).Inc()
}

// RecordBotSend counts an outgoing Telegram message.
func (r *Registry) RecordBotSend(kind, result string) {
	if r == nil {
		return
	}
	r.BotSends.WithLabelValues(kind, result).Inc()
}

// SessionStarted marks one more dialogue awaiting input.
func (r *Registry) SessionStarted() {
	if r == nil {
		return
	}
	r.ActiveSessions.Inc()
}

// SessionEnded marks a dialogue as finished.
func (r *Registry) SessionEnded() {
	if r == nil {
		return
	}
	r.ActiveSessions.Dec()
}

// updateCacheHitRatio recomputes the ratio gauge by reading the counters
// back out of the collectors.
func (r *Registry) updateCacheHitRatio() {
	var totalHits, totalMisses float64
	sample := &io_prometheus_client.Metric{}

	for _, cacheType := range cacheTypes {
		if hit, err := r.CacheHits.GetMetricWithLabelValues(cacheType); err == nil {
			if err := hit.Write(sample); err == nil {
				totalHits += sample.GetCounter().GetValue()
			}
		}
		if miss, err := r.CacheMisses.GetMetricWithLabelValues(cacheType); err == nil {
			if err := miss.Write(sample); err == nil {
				totalMisses += sample.GetCounter().GetValue()
			}
		}
	}

	if total := totalHits + totalMisses; total > 0 {
		r.CacheHitRatio.Set(totalHits / total)
	}
}

// Handler serves the registry in Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gather exposes the underlying registry for tests and composition.
func (r *Registry) Gather() ([]*io_prometheus_client.MetricFamily, error) {
	return r.reg.Gather()
}
