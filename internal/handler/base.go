package handler

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/deppfellow/names-api/internal/errs"
	"github.com/deppfellow/names-api/internal/middleware"
	"github.com/deppfellow/names-api/internal/model"
	"github.com/deppfellow/names-api/internal/server"
	"github.com/deppfellow/names-api/internal/sqlerr"
	"github.com/deppfellow/names-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Handler is the base type embedded by concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed operation: it receives a bound, validated request
// and returns a response body or an error.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// Operation describes one endpoint for Handle.
type Operation[Req validation.Validatable, Res any] struct {
	// Name labels logs and traces, e.g. "save_name".
	Name string
	// Status is written on success.
	Status int
	// FailureMessage is the only text a client sees when the operation fails
	// after validation.
	FailureMessage string
	// NewRequest returns a fresh payload for each request.
	NewRequest func() Req
	// Run performs the operation.
	Run HandlerFunc[Req, Res]
}

// Handle wraps op with binding, validation, error normalization, panic
// recovery, logging and tracing.
//
// Errors returned by op.Run that are not already an *errs.HTTPError are
// collaborator failures and become a 500 carrying op.FailureMessage. A panic
// inside op.Run becomes an unexpected fault with the same message.
func Handle[Req validation.Validatable, Res any](h Handler, op Operation[Req, Res]) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		txn := newrelic.FromContext(c.Request().Context())
		if txn != nil {
			txn.AddAttribute("handler.name", op.Name)
		}

		logger := middleware.GetLogger(c).With().
			Str("operation", op.Name).
			Str("route", c.Path()).
			Logger()

		logger.Debug().Msg("handling request")

		req := op.NewRequest()

		validationStart := time.Now()
		if err := validation.BindAndValidate(c, req); err != nil {
			validationDuration := time.Since(validationStart)

			logger.Warn().
				Err(err).
				Dur("validation_duration", validationDuration).
				Msg("request validation failed")

			if txn != nil {
				txn.AddAttribute("validation.status", "failed")
				txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
			}
			return err
		}

		if txn != nil {
			txn.AddAttribute("validation.status", "success")
		}

		handlerStart := time.Now()
		result, err := run(c, req, op, &logger)
		handlerDuration := time.Since(handlerStart)

		if err != nil {
			if txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
				txn.AddAttribute("handler.status", "error")
				txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			}
			return err
		}

		if txn != nil {
			txn.AddAttribute("handler.status", "success")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}

		logger.Debug().
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("request completed successfully")

		return c.JSON(op.Status, result)
	}
}

// run executes op.Run and normalizes whatever it produces into either a
// result or an *errs.HTTPError.
func run[Req validation.Validatable, Res any](c echo.Context, req Req, op Operation[Req, Res], logger *zerolog.Logger) (result Res, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("panic in %s: %v", op.Name, r)
			logger.Error().
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("operation panicked")

			var zero Res
			result, err = zero, errs.NewUnexpectedFault(op.FailureMessage, cause)
		}
	}()

	result, err = op.Run(c, req)
	if err == nil {
		return result, nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return result, httpErr
	}

	// Logged once, with the cause, by the global error handler.
	return result, errs.NewCollaboratorError(op.FailureMessage, sqlerr.ErrorCode(err, model.NamesTable), err)
}
