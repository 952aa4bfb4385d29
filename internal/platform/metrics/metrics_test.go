package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.IncTicks()
	m.IncTicks()
	m.IncHighlightChanges()
	m.IncScrollRequests()
	m.IncScrollSuppressed()
	m.IncManualScrolls()
	m.SetActiveSessions(3)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"ticks", testutil.ToFloat64(m.ticksTotal), 2},
		{"highlight changes", testutil.ToFloat64(m.highlightChangesTotal), 1},
		{"scroll requests", testutil.ToFloat64(m.scrollRequestsTotal), 1},
		{"scroll suppressed", testutil.ToFloat64(m.scrollSuppressedTotal), 1},
		{"manual scrolls", testutil.ToFloat64(m.manualScrollsTotal), 1},
		{"active sessions", testutil.ToFloat64(m.activeSessions), 3},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v; want %v", c.name, c.got, c.want)
		}
	}
}

func TestRequestMiddleware(t *testing.T) {
	m := New()
	h := RequestMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	for _, p := range []string{"/ok", "/missing", "/ok"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	if got := testutil.ToFloat64(m.requestsTotal); got != 3 {
		t.Errorf("requests = %v; want 3", got)
	}
	if got := testutil.ToFloat64(m.errorsTotal); got != 1 {
		t.Errorf("errors = %v; want 1", got)
	}
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New()
	called := false
	srv := httptest.NewServer(m.Handler(func() {
		called = true
		m.SetActiveSessions(1)
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !called {
		t.Error("updateGauges was not called")
	}
	if !strings.Contains(string(body), "ccviewer_active_sessions 1") {
		t.Errorf("body does not expose active sessions gauge:\n%s", body)
	}
}
