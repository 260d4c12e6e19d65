// Package server defines the Server container that composes the app's main
// dependencies and owns their lifecycle.
//
// It owns:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the Supabase REST client, or the pgx pool when NAMES_STORE=postgres
//   - the Prometheus metrics registry
//   - the http.Server, when running as a standalone process
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/deppfellow/names-api/internal/config"
	"github.com/deppfellow/names-api/internal/database"
	"github.com/deppfellow/names-api/internal/lib/postgrest"
	"github.com/deppfellow/names-api/internal/metrics"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/names-api/internal/logger"
)

// Server is the application container that holds shared resources.
// It is not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// Supabase is the REST gateway client. Always set.
	Supabase *postgrest.Client

	// DB is only set when the postgres store is selected.
	DB *database.Database

	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New constructs a Server and initializes its collaborators.
//
// Nothing here talks to Supabase over REST; the first request does. The pgx
// pool, when selected, is pinged so a bad SUPABASE_DB_URL fails startup.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	httpClient := postgrest.NewHTTPClient()
	if loggerService != nil && loggerService.GetApplication() != nil {
		// External segments for every gateway call.
		httpClient.Transport = newrelic.NewRoundTripper(httpClient.Transport)
	}

	supabase, err := postgrest.NewClient(cfg.Supabase.URL, cfg.Supabase.Key, postgrest.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize supabase client: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Supabase:      supabase,
		Metrics:       metrics.New(),
	}

	if cfg.Supabase.Store == config.StorePostgres {
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.DB = db
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
		IdleTimeout:  s.Config.Server.IdleTimeout,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", s.Config.Supabase.Store).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then releases the store connection.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
