// Package handler is the HTTP layer between the router and the services.
//
// Handlers bind and validate input through the validation package, call a
// service, and return either a response body or an error for the global
// error handler to render.
package handler

import (
	"github.com/deppfellow/names-api/internal/server"
	"github.com/deppfellow/names-api/internal/service"
	"github.com/deppfellow/names-api/static"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Names   *NameHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Names:   NewNameHandler(s, services.Names),
		Health:  NewHealthHandler(s, services.Names),
		OpenAPI: NewOpenAPIHandler(s, static.FS),
	}
}
