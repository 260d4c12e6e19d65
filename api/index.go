// Package handler is the serverless entrypoint. The platform invokes Handler
// once per request; the router is built on the first call and reused.
package handler

import (
	"net/http"
	"sync"

	"github.com/deppfellow/names-api/internal/app"
	"github.com/deppfellow/names-api/internal/config"
	"github.com/deppfellow/names-api/internal/logger"
)

var (
	once     sync.Once
	instance *app.App
)

func boot() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.NewLogger(config.DefaultObservabilityConfig())
		log.Fatal().Err(err).Msg("failed to load config")
	}

	instance, err = app.New(cfg)
	if err != nil {
		log := logger.NewLogger(cfg.Observability)
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
}

// Handler serves one request through the shared router, booting it first
// if this is the process's first call.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(boot)
	instance.Router.ServeHTTP(w, r)
}
