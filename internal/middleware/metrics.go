package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/deppfellow/names-api/internal/metrics"
	"github.com/labstack/echo/v4"
)

// unmatchedRoute labels requests that hit no registered route, so probes
// for random paths cannot blow up label cardinality.
const unmatchedRoute = "unmatched"

// Metrics records the count and latency of every request, labelled by the
// route template rather than the raw path.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" || errors.Is(err, echo.ErrNotFound) {
				route = unmatchedRoute
			}

			m.ObserveRequest(c.Request().Method, route, strconv.Itoa(statusFor(c, err)), time.Since(start))
			return err
		}
	}
}
