// Package router builds the echo instance: global middleware, the /api
// name routes and the system routes.
package router

import (
	"github.com/deppfellow/names-api/internal/handler"
	"github.com/deppfellow/names-api/internal/middleware"
	"github.com/deppfellow/names-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter returns a fully wired echo instance. It is used both by the
// standalone server and by the serverless entry point.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middleware.Metrics(s.Metrics),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, s, h)

	api := router.Group("/api")
	api.GET("/test", h.Names.TestConnection())
	api.POST("/save-name", h.Names.SaveName())
	api.GET("/get-names", h.Names.GetNames())

	return router
}
