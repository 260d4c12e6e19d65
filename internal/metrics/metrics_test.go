package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	return string(body)
}

func TestObserveStoreCall(t *testing.T) {
	m := New()

	start := time.Now()
	m.ObserveStoreCall("insert", start, nil)
	m.ObserveStoreCall("insert", start, nil)
	m.ObserveStoreCall("count", start, errors.New("unreachable"))

	out := scrape(t, m)

	expected := []string{
		`names_api_store_calls_total{operation="insert",result="success"} 2`,
		`names_api_store_calls_total{operation="count",result="error"} 1`,
		`names_api_store_call_duration_seconds_count{operation="insert"} 2`,
	}
	for _, line := range expected {
		if !strings.Contains(out, line) {
			t.Errorf("expected scrape to contain %q", line)
		}
	}
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodPost, "/api/save-name", "400", 3*time.Millisecond)

	out := scrape(t, m)
	if !strings.Contains(out, `names_api_http_requests_total{method="POST",route="/api/save-name",status="400"} 1`) {
		t.Error("expected request counter in scrape output")
	}
	if !strings.Contains(out, `names_api_http_request_duration_seconds_count{method="POST",route="/api/save-name"} 1`) {
		t.Error("expected request histogram in scrape output")
	}
}

func TestInstancesDoNotShareRegistry(t *testing.T) {
	a := New()
	b := New()

	a.ObserveStoreCall("list", time.Now(), nil)

	if strings.Contains(scrape(t, b), `names_api_store_calls_total{operation="list"`) {
		t.Error("expected separate registries per Metrics instance")
	}
}
