package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/names-api/internal/config"
	"github.com/deppfellow/names-api/internal/handler"
	"github.com/deppfellow/names-api/internal/metrics"
	"github.com/deppfellow/names-api/internal/middleware"
	"github.com/deppfellow/names-api/internal/model"
	"github.com/deppfellow/names-api/internal/server"
	"github.com/deppfellow/names-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type memoryStore struct {
	names []model.NameRecord
}

func (m *memoryStore) Count(context.Context) (int64, error) { return int64(len(m.names)), nil }

func (m *memoryStore) Insert(_ context.Context, n model.NewName) error {
	m.names = append([]model.NameRecord{{Name: n.Name, CreatedAt: model.FormatTimestamp(n.CreatedAt)}}, m.names...)
	return nil
}

func (m *memoryStore) List(context.Context) ([]model.NameRecord, error) { return m.names, nil }

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	return newTestRouterWithStore(t, &memoryStore{})
}

func newTestRouterWithStore(t *testing.T, store *memoryStore) *echo.Echo {
	t.Helper()

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	s := &server.Server{
		Config: &config.Config{
			Primary:  config.Primary{Env: "test"},
			Server:   config.ServerConfig{Port: "0", CORSAllowedOrigins: []string{"*"}},
			Supabase: config.SupabaseConfig{Store: config.StoreREST},
		},
		Logger:  &logger,
		Metrics: metrics.New(),
	}

	services := &service.Services{Names: service.NewNameService(store, &logger)}
	return NewRouter(s, handler.NewHandlers(s, services))
}

func serve(r *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t)
	jsonBody := map[string]string{echo.HeaderContentType: echo.MIMEApplicationJSON}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{"connectivity", http.MethodGet, "/api/test", "", nil, http.StatusOK, `"count":0`},
		{"save", http.MethodPost, "/api/save-name", `{"name":"Ada"}`, jsonBody, http.StatusOK, `"name":"Ada"`},
		{"list", http.MethodGet, "/api/get-names", "", nil, http.StatusOK, `"names":[`},
		{"unknown route", http.MethodGet, "/api/unknown", "", nil, http.StatusNotFound, `{"error":"Route not found"}`},
		{"wrong method", http.MethodDelete, "/api/get-names", "", nil, http.StatusMethodNotAllowed, `"error":`},
		{"status", http.MethodGet, "/status", "", nil, http.StatusOK, `"status":"healthy"`},
		{"docs", http.MethodGet, "/docs", "", nil, http.StatusOK, "openapi.json"},
		{"spec document", http.MethodGet, "/static/openapi.json", "", nil, http.StatusOK, `"/api/save-name"`},
		{"metrics", http.MethodGet, "/metrics", "", nil, http.StatusOK, "names_api_http_requests_total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, tt.method, tt.path, tt.body, tt.headers)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("expected body to contain %q, got %s", tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	jsonBody := map[string]string{echo.HeaderContentType: echo.MIMEApplicationJSON}
	oversized := `{"name":"` + strings.Repeat("a", 200<<10) + `"}`

	t.Run("content length over limit", func(t *testing.T) {
		store := &memoryStore{}
		r := newTestRouterWithStore(t, store)

		rec := serve(r, http.MethodPost, "/api/save-name", oversized, jsonBody)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Request Entity Too Large"}` {
			t.Errorf("unexpected body %s", got)
		}
		if len(store.names) != 0 {
			t.Errorf("expected nothing stored, got %d names", len(store.names))
		}
	})

	t.Run("streamed body over limit", func(t *testing.T) {
		store := &memoryStore{}
		r := newTestRouterWithStore(t, store)

		req := httptest.NewRequest(http.MethodPost, "/api/save-name", strings.NewReader(oversized))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(store.names) != 0 {
			t.Errorf("expected nothing stored, got %d names", len(store.names))
		}
	})

	t.Run("body under limit", func(t *testing.T) {
		r := newTestRouter(t)
		name := strings.Repeat("a", 90<<10)

		rec := serve(r, http.MethodPost, "/api/save-name", `{"name":"`+name+`"}`, jsonBody)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, http.MethodOptions, "/api/save-name", "", map[string]string{
		echo.HeaderOrigin:                     "https://example.com",
		echo.HeaderAccessControlRequestMethod: http.MethodPost,
	})

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, http.MethodGet, "/api/test", "", map[string]string{middleware.RequestIDHeader: "trace-me"})

	if rec.Header().Get(middleware.RequestIDHeader) != "trace-me" {
		t.Errorf("expected request id to be echoed, got %q", rec.Header().Get(middleware.RequestIDHeader))
	}
}
