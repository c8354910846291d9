// Package metrics implements the observability hooks with Prometheus.
//
// Metrics live in their own registry so tests and embedding programs do not
// collide with the global default registry:
//
//	m := metrics.New()
//	m.Install()
//	mux.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/styletower/pkg/observability"
)

const namespace = "styletower"

// Metrics records render, rehydration, cache and HTTP events.
type Metrics struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	blocks         prometheus.Counter
	rehydrations   *prometheus.CounterVec
	restoredRules  prometheus.Histogram
	cacheEvents    *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	inFlight       prometheus.Gauge
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New creates Metrics with Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Component renders by component and outcome.",
		}, []string{"component", "outcome"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering and extracting a component.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"component"}),
		blocks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "style_blocks_emitted_total",
			Help:      "Style blocks emitted by server renders.",
		}),
		rehydrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rehydrations_total",
			Help:      "Sheet reconciliations by outcome.",
		}, []string{"outcome"}),
		restoredRules: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rehydrated_rules",
			Help:      "Rules restored per successful reconciliation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP responses by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers m for every hook category.
func (m *Metrics) Install() {
	observability.SetRenderHooks(m)
	observability.SetRehydrateHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Registry returns the registry holding m's collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// OnRenderStart implements observability.RenderHooks.
func (m *Metrics) OnRenderStart(context.Context, string) {}

// OnRenderComplete implements observability.RenderHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, component string, blocks int, d time.Duration, err error) {
	m.renders.WithLabelValues(component, outcome(err)).Inc()
	m.renderDuration.WithLabelValues(component).Observe(d.Seconds())
	m.blocks.Add(float64(blocks))
}

// OnRehydrate implements observability.RehydrateHooks.
func (m *Metrics) OnRehydrate(_ context.Context, _, rules int, degraded bool, _ time.Duration) {
	if degraded {
		m.rehydrations.WithLabelValues("degraded").Inc()
		return
	}
	m.rehydrations.WithLabelValues("ok").Inc()
	m.restoredRules.Observe(float64(rules))
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.RenderHooks    = (*Metrics)(nil)
	_ observability.RehydrateHooks = (*Metrics)(nil)
	_ observability.CacheHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks      = (*Metrics)(nil)
)
