package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/styletower/internal/metrics"
	"github.com/matzehuels/styletower/pkg/cache"
	"github.com/matzehuels/styletower/pkg/catalog"
	"github.com/matzehuels/styletower/pkg/config"
	"github.com/matzehuels/styletower/pkg/observability"
	"github.com/matzehuels/styletower/pkg/pipeline"
)

func newServer(t *testing.T, m *metrics.Metrics) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Components = []config.Component{
		{Name: "Button", Static: []string{"display:inline-flex;"}},
		{Name: "PrimaryButton", Extends: "Button",
			Dynamic: []string{`background:{{ .tone | default "navy" }};`}},
	}
	cat, err := catalog.New(cfg.Components)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cat, cache.NewMemoryCache(), nil, logger)
	return New(Options{Config: cfg, Runner: runner, Metrics: m, Logger: logger})
}

func get(t *testing.T, h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var tokenAttr = regexp.MustCompile(`href="(st-[0-9a-z]+)"`)

func TestRenderAndSheet(t *testing.T) {
	h := newServer(t, nil).Handler()

	rec := get(t, h, "/render/PrimaryButton?tone=teal")
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", rec.Header().Get("X-Cache"))
	}
	body := rec.Body.String()
	head := body[:strings.Index(body, "</head>")]
	if !strings.Contains(head, "background:teal;") {
		t.Errorf("head misses dynamic styles:\n%s", body)
	}

	tokens := tokenAttr.FindAllStringSubmatch(body, -1)
	if len(tokens) != 2 {
		t.Fatalf("found %d block tokens, want 2", len(tokens))
	}
	for _, m := range tokens {
		css := get(t, h, "/sheet/"+m[1]+".css")
		if css.Code != http.StatusOK {
			t.Fatalf("sheet %s status = %d", m[1], css.Code)
		}
		if !strings.HasPrefix(css.Header().Get("Content-Type"), "text/css") {
			t.Errorf("sheet Content-Type = %q", css.Header().Get("Content-Type"))
		}
		if css.Body.Len() == 0 {
			t.Errorf("sheet %s is empty", m[1])
		}

		notModified := get(t, h, "/sheet/"+m[1]+".css", "If-None-Match", `"`+m[1]+`"`)
		if notModified.Code != http.StatusNotModified {
			t.Errorf("conditional request status = %d", notModified.Code)
		}
	}

	again := get(t, h, "/render/PrimaryButton?tone=teal")
	if again.Header().Get("X-Cache") != "HIT" || again.Body.String() != body {
		t.Error("repeated render should be served from the page cache")
	}
}

func TestErrorStatuses(t *testing.T) {
	h := newServer(t, nil).Handler()
	tests := []struct {
		path string
		want int
	}{
		{"/render/Missing", http.StatusNotFound},
		{"/render/PrimaryButton?tone=red%7Dbody%7Bx:y", http.StatusBadRequest},
		{"/render/Button?bad-name=1", http.StatusBadRequest},
		{"/sheet/not%20a%20token.css", http.StatusBadRequest},
		{"/sheet/st-abc.css", http.StatusNotFound},
		{"/sheet/st-abc.js", http.StatusNotFound},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestHealthAndCatalog(t *testing.T) {
	h := newServer(t, nil).Handler()

	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	rec := get(t, h, "/catalog")
	var body struct {
		Components  []string        `json:"components"`
		Definitions []catalog.Entry `json:"definitions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(body.Components, ",") != "Button,PrimaryButton" {
		t.Errorf("components = %v", body.Components)
	}
	if len(body.Definitions) != 2 {
		t.Fatalf("definitions = %+v", body.Definitions)
	}
	if d := body.Definitions[1]; d.Extends != "Button" || d.Depth != 1 || !d.Dynamic {
		t.Errorf("PrimaryButton definition = %+v", d)
	}

	if rec := get(t, h, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("/metrics without metrics = %d, want 404", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	h := newServer(t, nil).Handler()

	rec := get(t, h, "/healthz")
	if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("generated request id %q is not a uuid", rec.Header().Get(HeaderRequestID))
	}

	id := uuid.NewString()
	if got := get(t, h, "/healthz", HeaderRequestID, id).Header().Get(HeaderRequestID); got != id {
		t.Errorf("request id = %q, want the incoming %q", got, id)
	}
	if got := get(t, h, "/healthz", HeaderRequestID, "<script>").Header().Get(HeaderRequestID); got == "<script>" {
		t.Error("malformed request ids must be replaced")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	defer observability.Reset()
	m := metrics.New()
	m.Install()
	h := newServer(t, m).Handler()

	get(t, h, "/render/Button")
	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`styletower_renders_total{component="Button",outcome="ok"} 1`,
		`styletower_http_requests_total{code="200",method="GET",route="/render/{component}"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics miss %q", want)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
