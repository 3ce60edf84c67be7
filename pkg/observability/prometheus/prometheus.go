// Package prometheus backs the observability hooks with Prometheus
// collectors and provides an HTTP middleware for the server.
//
//	m := prometheus.New(prometheus.NewRegistry())
//	m.Install()
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spendinglol/spending/pkg/observability"
)

const namespace = "spending"

// Metrics holds the collectors behind the hooks.
type Metrics struct {
	gatherer prometheus.Gatherer

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	upstream      *prometheus.HistogramVec
	upstreamErrs  *prometheus.CounterVec
	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
	prefetched    *prometheus.CounterVec
	prefetchRows  prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_errors_total",
			Help:      "Pipeline stages that returned an error.",
		}, []string{"stage"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type.",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"type"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host", "code"}),
		upstreamErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_request_errors_total",
			Help:      "Upstream requests that failed without a response.",
		}, []string{"host"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "How many HTTP requests processed, partitioned by status code and HTTP method.",
		}, []string{"code", "method"}),
		requestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "The HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
		prefetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prefetch_levels_total",
			Help:      "Level files visited by prefetch, by outcome.",
		}, []string{"result"}),
		prefetchRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prefetch_rows_total",
			Help:      "Result rows in level files written by prefetch.",
		}),
	}
	reg.MustRegister(
		m.stageDuration, m.stageErrors,
		m.cacheEvents, m.cacheBytes,
		m.upstream, m.upstreamErrs,
		m.requests, m.requestTime,
		m.prefetched, m.prefetchRows,
	)
	return m
}

// Hooks returns the hook set backed by m.
func (m *Metrics) Hooks() observability.Hooks {
	return observability.Hooks{
		Pipeline: pipelineHooks{m},
		Cache:    cacheHooks{m},
		HTTP:     httpHooks{m},
		Prefetch: prefetchHooks{m},
	}
}

// Install makes m the global hook set.
func (m *Metrics) Install() {
	observability.Install(m.Hooks())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// WriteFile writes the registry to path in the text format read by the
// node_exporter textfile collector. Batch commands use it in place of a
// scrape endpoint.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}

// Middleware counts requests and records their latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		code := strconv.Itoa(sw.status)
		m.requests.WithLabelValues(code, r.Method).Inc()
		m.requestTime.WithLabelValues(code, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

type pipelineHooks struct{ m *Metrics }

func (pipelineHooks) OnLoadStart(context.Context, string)        {}
func (pipelineHooks) OnLayoutStart(context.Context, string, int) {}
func (pipelineHooks) OnRenderStart(context.Context, []string)    {}

func (h pipelineHooks) OnLoadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.m.stage("load", d, err)
}

func (h pipelineHooks) OnLayoutComplete(_ context.Context, _ string, d time.Duration, err error) {
	h.m.stage("layout", d, err)
}

func (h pipelineHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.m.stage("render", d, err)
}

type cacheHooks struct{ m *Metrics }

func (h cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

type httpHooks struct{ m *Metrics }

func (httpHooks) OnRequest(context.Context, string, string, string) {}

func (h httpHooks) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	h.m.upstream.WithLabelValues(host, strconv.Itoa(status)).Observe(d.Seconds())
}

func (h httpHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.m.upstreamErrs.WithLabelValues(host).Inc()
}

type prefetchHooks struct{ m *Metrics }

func (h prefetchHooks) OnPrefetchLevel(_ context.Context, _, outcome string, rows int) {
	h.m.prefetched.WithLabelValues(outcome).Inc()
	if outcome == observability.PrefetchWritten {
		h.m.prefetchRows.Add(float64(rows))
	}
}
