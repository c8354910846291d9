package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/styletower/pkg/observability"
)

func TestRenderMetrics(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnRenderComplete(ctx, "Button", 2, time.Millisecond, nil)
	m.OnRenderComplete(ctx, "Button", 1, time.Millisecond, nil)
	m.OnRenderComplete(ctx, "Button", 0, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.renders.WithLabelValues("Button", "ok")); got != 2 {
		t.Errorf("ok renders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.renders.WithLabelValues("Button", "error")); got != 1 {
		t.Errorf("failed renders = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.blocks); got != 3 {
		t.Errorf("blocks = %v, want 3", got)
	}
}

func TestRehydrateAndCacheMetrics(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnRehydrate(ctx, 2, 5, false, time.Millisecond)
	m.OnRehydrate(ctx, 0, 0, true, time.Millisecond)
	m.OnCacheHit(ctx, "block")
	m.OnCacheMiss(ctx, "block")
	m.OnCacheSet(ctx, "block", 100)

	if got := testutil.ToFloat64(m.rehydrations.WithLabelValues("degraded")); got != 1 {
		t.Errorf("degraded = %v", got)
	}
	if got := testutil.ToFloat64(m.cacheEvents.WithLabelValues("block", "hit")); got != 1 {
		t.Errorf("hits = %v", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("block")); got != 100 {
		t.Errorf("bytes = %v", got)
	}
}

func TestHTTPMetrics(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnRequest(ctx, "GET", "/healthz")
	if got := testutil.ToFloat64(m.inFlight); got != 1 {
		t.Errorf("in flight = %v", got)
	}
	m.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Errorf("in flight after response = %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/healthz", "200")); got != 1 {
		t.Errorf("requests = %v", got)
	}
}

func TestInstallAndHandler(t *testing.T) {
	defer observability.Reset()
	m := New()
	m.Install()

	observability.Cache().OnCacheHit(context.Background(), "page")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `styletower_cache_events_total{event="hit",key_type="page"} 1`) {
		t.Errorf("exposition misses the cache hit:\n%s", body)
	}
}
