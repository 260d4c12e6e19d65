// Package app assembles the server, repositories, services, handlers and
// router from a loaded config. Both the standalone binary and the serverless
// entrypoint build through New.
package app

import (
	"fmt"

	"github.com/deppfellow/names-api/internal/config"
	"github.com/deppfellow/names-api/internal/handler"
	"github.com/deppfellow/names-api/internal/logger"
	"github.com/deppfellow/names-api/internal/repository"
	"github.com/deppfellow/names-api/internal/router"
	"github.com/deppfellow/names-api/internal/server"
	"github.com/deppfellow/names-api/internal/service"
	"github.com/labstack/echo/v4"
)

type App struct {
	Server        *server.Server
	Router        *echo.Echo
	LoggerService *logger.LoggerService
}

func New(cfg *config.Config) (*App, error) {
	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)
	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)

	return &App{
		Server:        srv,
		Router:        router.NewRouter(srv, handlers),
		LoggerService: loggerService,
	}, nil
}
