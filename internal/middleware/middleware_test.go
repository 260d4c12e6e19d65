package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/names-api/internal/config"
	"github.com/deppfellow/names-api/internal/errs"
	"github.com/deppfellow/names-api/internal/metrics"
	"github.com/deppfellow/names-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, logOut *bytes.Buffer) *server.Server {
	t.Helper()

	logger := zerolog.New(logOut)
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server:  config.ServerConfig{Port: "0", CORSAllowedOrigins: []string{"*"}},
			Supabase: config.SupabaseConfig{
				URL:   "https://project.supabase.co",
				Key:   "anon-key",
				Store: config.StoreREST,
			},
		},
		Logger:  &logger,
		Metrics: metrics.New(),
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	storeErr := errors.New(`relation "public.names" does not exist`)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "unknown route",
			err:         echo.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: RouteNotFoundMessage,
		},
		{
			name:        "wrong method",
			err:         echo.ErrMethodNotAllowed,
			wantStatus:  http.StatusMethodNotAllowed,
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "validation error",
			err:         errs.ValidationError("Name must be a string with at least 2 characters", nil),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Name must be a string with at least 2 characters",
		},
		{
			name:        "collaborator error hides store detail",
			err:         errs.NewCollaboratorError("Failed to fetch names", "", storeErr),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Failed to fetch names",
		},
		{
			name:        "raw error",
			err:         storeErr,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
		{
			name:        "echo internal error",
			err:         echo.NewHTTPError(http.StatusInternalServerError, "boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			global := NewGlobalMiddlewares(newTestServer(t, &logs))

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/get-names", nil), rec)

			global.GlobalErrorHandler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			body := decodeError(t, rec)
			if len(body) != 1 || body["error"] != tt.wantMessage {
				t.Errorf("expected {error: %q}, got %v", tt.wantMessage, body)
			}
			if strings.Contains(rec.Body.String(), "public.names") {
				t.Error("store error text leaked into the response")
			}
		})
	}
}

func TestGlobalErrorHandlerSkipsCommittedResponse(t *testing.T) {
	var logs bytes.Buffer
	global := NewGlobalMiddlewares(newTestServer(t, &logs))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	global.GlobalErrorHandler(errors.New("late failure"), c)

	if rec.Body.String() != "done" {
		t.Errorf("expected committed body to be untouched, got %q", rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	handler := RequestID()(func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("reuses upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "upstream-1")
		rec := httptest.NewRecorder()

		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		if rec.Body.String() != "upstream-1" || rec.Header().Get(RequestIDHeader) != "upstream-1" {
			t.Errorf("expected upstream id to be reused, got %q", rec.Body.String())
		}
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
			t.Fatal(err)
		}
		if len(rec.Body.String()) != 36 {
			t.Errorf("expected a generated uuid, got %q", rec.Body.String())
		}
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		rec := httptest.NewRecorder()

		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		if len(rec.Body.String()) != 36 {
			t.Errorf("expected oversized id to be replaced, got %d chars", len(rec.Body.String()))
		}
	})
}

func TestEnhanceContext(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, &logs)

	e := echo.New()
	chain := RequestID()(NewContextEnhancer(s).EnhanceContext()(func(c echo.Context) error {
		GetLogger(c).Info().Msg("from echo context")
		zerolog.Ctx(c.Request().Context()).Info().Msg("from request context")
		return c.NoContent(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	if err := chain(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), logs.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, `"request_id":"req-42"`) {
			t.Errorf("expected request id on log line %q", line)
		}
	}
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if GetLogger(c) == nil {
		t.Fatal("expected a no-op logger")
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(Metrics(m))
	e.GET("/api/get-names", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"names": []string{}})
	})
	e.POST("/api/save-name", func(c echo.Context) error {
		return errs.ValidationError("Name must be a string with at least 2 characters", nil)
	})

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/get-names"},
		{http.MethodPost, "/api/save-name"},
		{http.MethodGet, "/does-not-exist"},
	} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(r.method, r.path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()

	for _, line := range []string{
		`names_api_http_requests_total{method="GET",route="/api/get-names",status="200"} 1`,
		`names_api_http_requests_total{method="POST",route="/api/save-name",status="400"} 1`,
		`names_api_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
	} {
		if !strings.Contains(out, line) {
			t.Errorf("expected %q in scrape output", line)
		}
	}
	if strings.Contains(out, "does-not-exist") {
		t.Error("raw path leaked into route label")
	}
}
