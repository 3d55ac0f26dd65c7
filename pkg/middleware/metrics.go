package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/crumbtrail/internal/errors"
	"github.com/vango-dev/crumbtrail/pkg/features/breadcrumb"
	"github.com/vango-dev/crumbtrail/pkg/server"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "crumbs").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// Gatherer serves the metrics endpoint. Defaults to Registry when it is
	// a *prometheus.Registry, otherwise prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "crumbs",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics collects Prometheus metrics for breadcrumb stores, tree renders,
// live sessions and HTTP requests. It implements breadcrumb.Observer and
// server.Observer.
//
// Metrics collected:
//   - crumbs_breadcrumb_replaces_total: list replaces
//   - crumbs_breadcrumb_entries: entries per replaced list
//   - crumbs_breadcrumb_merges_total: overrides merged, by result
//   - crumbs_breadcrumb_overrides_dropped_total: overrides dropped by a replace
//   - crumbs_breadcrumb_unregisters_total: overrides forgotten on unmount
//   - crumbs_renders_total: tree renders by source and status
//   - crumbs_render_duration_seconds: tree render duration by source
//   - crumbs_render_passes: passes per render
//   - crumbs_active_sessions: open live sessions
//   - crumbs_sessions_total: live sessions opened
//   - crumbs_http_requests_total: HTTP requests by method, route and code
//   - crumbs_http_request_duration_seconds: HTTP request duration
type Metrics struct {
	gatherer prometheus.Gatherer

	replaces         prometheus.Counter
	entries          prometheus.Histogram
	merges           *prometheus.CounterVec
	overridesDropped prometheus.Counter
	unregisters      prometheus.Counter

	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderPasses   prometheus.Histogram
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var (
	_ breadcrumb.Observer = (*Metrics)(nil)
	_ server.Observer     = (*Metrics)(nil)
)

// Prometheus creates and registers the metrics.
//
//	metrics := middleware.Prometheus(middleware.WithRegistry(reg))
//	srv := server.New(&server.ServerConfig{Observer: metrics})
//	srv.Use(metrics.Handler)
//	srv.Mount("/metrics", metrics.Endpoint())
//
// Registering twice with the same registry panics, as with promauto.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Gatherer == nil {
		if g, ok := config.Registry.(prometheus.Gatherer); ok {
			config.Gatherer = g
		} else {
			config.Gatherer = prometheus.DefaultGatherer
		}
	}

	factory := promauto.With(config.Registry)
	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}
	}
	histogram := func(name, help string, buckets []float64) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
			Buckets:     buckets,
		}
	}
	smallCounts := []float64{1, 2, 3, 4, 6, 8, 12, 16}

	return &Metrics{
		gatherer: config.Gatherer,

		replaces: factory.NewCounter(counter(
			"breadcrumb_replaces_total",
			"Total number of breadcrumb list replaces")),
		entries: factory.NewHistogram(histogram(
			"breadcrumb_entries",
			"Number of entries in a replaced breadcrumb list", smallCounts)),
		merges: factory.NewCounterVec(counter(
			"breadcrumb_merges_total",
			"Total number of breadcrumb override merges by result"),
			[]string{"result"}),
		overridesDropped: factory.NewCounter(counter(
			"breadcrumb_overrides_dropped_total",
			"Total number of overrides dropped because their key left the path")),
		unregisters: factory.NewCounter(counter(
			"breadcrumb_unregisters_total",
			"Total number of overrides forgotten when their item unmounted")),

		renders: factory.NewCounterVec(counter(
			"renders_total",
			"Total number of tree renders by source and status"),
			[]string{"source", "status"}),
		renderDuration: factory.NewHistogramVec(histogram(
			"render_duration_seconds",
			"Tree render duration in seconds", config.Buckets),
			[]string{"source"}),
		renderPasses: factory.NewHistogram(histogram(
			"render_passes",
			"Render passes needed for a tree to settle", smallCounts)),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open live sessions",
			ConstLabels: config.ConstLabels,
		}),
		sessionsTotal: factory.NewCounter(counter(
			"sessions_total",
			"Total number of live sessions opened")),

		httpRequests: factory.NewCounterVec(counter(
			"http_requests_total",
			"Total number of HTTP requests by method, route and status code"),
			[]string{"method", "route", "code"}),
		httpDuration: factory.NewHistogramVec(histogram(
			"http_request_duration_seconds",
			"HTTP request duration in seconds", config.Buckets),
			[]string{"method", "route"}),
	}
}

// Replaced implements breadcrumb.Observer.
func (m *Metrics) Replaced(entries, dropped int) {
	m.replaces.Inc()
	m.entries.Observe(float64(entries))
	if dropped > 0 {
		m.overridesDropped.Add(float64(dropped))
	}
}

// Merged implements breadcrumb.Observer.
func (m *Metrics) Merged(_ string, applied bool) {
	result := "applied"
	if !applied {
		result = "unknown_key"
	}
	m.merges.WithLabelValues(result).Inc()
}

// Unregistered implements breadcrumb.Observer.
func (m *Metrics) Unregistered(string) {
	m.unregisters.Inc()
}

// Rendered implements server.Observer.
func (m *Metrics) Rendered(e server.RenderEvent) {
	status := "success"
	if e.Err != nil {
		status = categorizeError(e.Err)
	}
	m.renders.WithLabelValues(e.Source, status).Inc()
	m.renderDuration.WithLabelValues(e.Source).Observe(e.Duration.Seconds())
	m.renderPasses.Observe(float64(e.Passes))
}

// SessionOpened implements server.Observer.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
	m.sessionsTotal.Inc()
}

// SessionClosed implements server.Observer.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// Handler is HTTP middleware that counts and times requests. Requests are
// labelled with their chi route pattern, not the raw path, to keep label
// cardinality bounded.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Endpoint serves the gathered metrics in the Prometheus exposition format.
func (m *Metrics) Endpoint() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// routePattern returns the matched chi route, or "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// categorizeError maps an error to a low-cardinality label: the code of a
// structured error, otherwise "internal".
func categorizeError(err error) string {
	if ce, ok := errors.As(err); ok && ce.Code != "" {
		return ce.Code
	}
	return "internal"
}
