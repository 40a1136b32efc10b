package probe

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return rec.Code, string(body)
}

func TestLivenessEndpoints(t *testing.T) {
	t.Parallel()

	s := NewServer(":0", nil)

	code, body := get(t, s.Handler(), "/health")
	if code != http.StatusOK || body != "OK" {
		t.Fatalf("health: %d %q", code, body)
	}

	code, body = get(t, s.Handler(), "/")
	if code != http.StatusOK || !strings.Contains(body, "running") {
		t.Fatalf("root: %d %q", code, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.OrderCreated()
	m.OrderCreated()
	m.OrderConfirmed()
	m.NotifyFailed()

	s := NewServer(":0", m)
	code, body := get(t, s.Handler(), "/metrics")
	if code != http.StatusOK {
		t.Fatalf("metrics status: %d", code)
	}
	if !strings.Contains(body, "numbot_orders_created_total 2") {
		t.Fatalf("expected created counter in output:\n%s", body)
	}
	if !strings.Contains(body, "numbot_notify_failures_total 1") {
		t.Fatalf("expected notify failure counter in output:\n%s", body)
	}
}
