package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every exported metric name.
const Namespace = "molview"

// Metrics implements all hook interfaces on top of Prometheus collectors.
type Metrics struct {
	layouts        *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	atoms          prometheus.Histogram
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheOps       *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	requests       *prometheus.CounterVec
	inflight       prometheus.Gauge
	reqDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "layouts_total",
			Help:      "Layouts produced, by result (fresh, cached, error).",
		}, []string{"result"}),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time to produce a layout, including cache lookups.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		atoms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "layout_atoms",
			Help:      "Atoms per produced layout.",
			Buckets:   prometheus.LinearBuckets(2, 2, 10),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "renders_total",
			Help:      "Artifacts rendered, by format and result.",
		}, []string{"format", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to render one request's artifacts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"formats"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes, by key type and operation.",
		}, []string{"key_type", "op"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.layouts, m.layoutDuration, m.atoms,
		m.renders, m.renderDuration,
		m.cacheOps, m.cacheBytes,
		m.requests, m.inflight, m.reqDuration,
	)
	return m
}

func result(cached bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case cached:
		return "cached"
	default:
		return "fresh"
	}
}

func (m *Metrics) OnLayoutStart(context.Context, string) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, atoms, _ int, cached bool, d time.Duration, err error) {
	m.layouts.WithLabelValues(result(cached, err)).Inc()
	m.layoutDuration.Observe(d.Seconds())
	if err == nil {
		m.atoms.Observe(float64(atoms))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, cached bool, d time.Duration, err error) {
	r := result(cached, err)
	for _, f := range formats {
		m.renders.WithLabelValues(f, r).Inc()
	}
	m.renderDuration.WithLabelValues(strconv.Itoa(len(formats))).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inflight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.inflight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
