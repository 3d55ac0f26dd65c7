package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	crumberrors "github.com/vango-dev/crumbtrail/internal/errors"
	"github.com/vango-dev/crumbtrail/pkg/features/breadcrumb"
	"github.com/vango-dev/crumbtrail/pkg/server"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return Prometheus(WithRegistry(reg)), reg
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsObservesStore(t *testing.T) {
	m, _ := newTestMetrics(t)
	store := breadcrumb.NewStore(m)

	store.Replace(breadcrumb.Split("/menu/products"))
	store.Merge(breadcrumb.Override{Key: "/menu/products", DisplayName: "Monitor"})
	store.Merge(breadcrumb.Override{Key: "/nowhere", DisplayName: "x"})
	store.Replace(breadcrumb.Split("/menu"))
	store.Unregister("/menu")

	if got := testutil.ToFloat64(m.replaces); got != 2 {
		t.Errorf("replaces = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.merges.WithLabelValues("applied")); got != 1 {
		t.Errorf("merges(applied) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.merges.WithLabelValues("unknown_key")); got != 1 {
		t.Errorf("merges(unknown_key) = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.overridesDropped); got != 1 {
		t.Errorf("overrides dropped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.unregisters); got != 0 {
		t.Errorf("unregisters = %v, want 0 (no override registered for /menu)", got)
	}
	if got := histogramCount(t, m.entries); got != 2 {
		t.Errorf("entries samples = %d, want 2", got)
	}
}

func TestMetricsObservesServer(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.Rendered(server.RenderEvent{Source: server.SourcePage, Passes: 2, Duration: time.Millisecond})
	m.Rendered(server.RenderEvent{Source: server.SourceLive, Passes: 8, Err: crumberrors.New("E201")})
	m.Rendered(server.RenderEvent{Source: server.SourceLive, Passes: 1, Err: errors.New("plain")})
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	tests := []struct {
		source, status string
		want           float64
	}{
		{server.SourcePage, "success", 1},
		{server.SourceLive, "E201", 1},
		{server.SourceLive, "internal", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.renders.WithLabelValues(tt.source, tt.status)); got != tt.want {
			t.Errorf("renders(%s,%s) = %v, want %v", tt.source, tt.status, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sessionsTotal); got != 2 {
		t.Errorf("sessions total = %v, want 2", got)
	}
	if got := histogramCount(t, m.renderPasses); got != 3 {
		t.Errorf("render passes samples = %d, want 3", got)
	}
}

func TestMetricsHandlerUsesRoutePattern(t *testing.T) {
	m, _ := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/items/{id}", "418")); got != 2 {
		t.Errorf("requests(/items/{id}) = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("requests(unmatched) = %v, want 1", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m, _ := newTestMetrics(t)
	m.SessionOpened()

	rec := httptest.NewRecorder()
	m.Endpoint().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "crumbs_active_sessions 1") {
		t.Errorf("endpoint output missing active sessions:\n%s", rec.Body.String())
	}
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(
		WithRegistry(reg),
		WithNamespace("shop"),
		WithSubsystem("nav"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	m.SessionOpened()

	n, err := testutil.GatherAndCount(reg, "shop_nav_active_sessions")
	if err != nil || n != 1 {
		t.Errorf("GatherAndCount = %d, %v; want 1", n, err)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{crumberrors.New("E202"), "E202"},
		{errors.New("anything"), "internal"},
		{crumberrors.Newf(crumberrors.CategoryRuntime, "no code"), "internal"},
	}
	for _, tt := range tests {
		if got := categorizeError(tt.err); got != tt.want {
			t.Errorf("categorizeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
