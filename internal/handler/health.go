package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/names-api/internal/middleware"
	"github.com/deppfellow/names-api/internal/model"
	"github.com/deppfellow/names-api/internal/server"
	"github.com/deppfellow/names-api/internal/service"
	"github.com/deppfellow/names-api/internal/sqlerr"
	"github.com/labstack/echo/v4"
)

// healthCheckTimeout bounds the store probe made by /status.
const healthCheckTimeout = 5 * time.Second

// HealthHandler reports whether the service can reach its names store.
type HealthHandler struct {
	Handler
	names *service.NameService
}

func NewHealthHandler(s *server.Server, names *service.NameService) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		names:   names,
	}
}

type healthCheck struct {
	Status       string `json:"status"`
	Adapter      string `json:"adapter,omitempty"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]healthCheck `json:"checks"`
}

// CheckHealth probes the store with an exact count. It returns 200 when the
// probe succeeds and 503 otherwise. Store failures are described, never
// quoted.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]healthCheck),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	storeStart := time.Now()
	_, err := h.names.Count(ctx)
	storeDuration := time.Since(storeStart)

	check := healthCheck{
		Status:       "healthy",
		Adapter:      h.server.Config.Supabase.Store,
		ResponseTime: storeDuration.String(),
	}

	if err != nil {
		check.Status = "unhealthy"
		check.Error = sqlerr.Describe(err)
		response.Status = "unhealthy"

		logger.Error().
			Err(err).
			Dur("response_time", storeDuration).
			Msg("store health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":       "store",
					"adapter":          check.Adapter,
					"error_type":       "store_unhealthy",
					"error_code":       sqlerr.ErrorCode(err, model.NamesTable),
					"response_time_ms": storeDuration.Milliseconds(),
				},
			)
		}
	}
	response.Checks["store"] = check

	if response.Status != "healthy" {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
