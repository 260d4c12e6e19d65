// Package validation contains the logic for validating request data.
//
// It binds request bodies with echo, runs each payload's own Validate method
// (which may use go-playground/validator tags) and turns failures into 400
// errs.HTTPError values the global error handler can render.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/names-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads that know how to validate
// themselves.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single validation issue that cannot be
// expressed with validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	if len(c) > 0 {
		return c[0].Message
	}
	return "Validation failed"
}

// InvalidBodyMessage is returned when the request body is not valid JSON.
const InvalidBodyMessage = "Invalid request body"

// validate is shared by every payload; *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New()

// BindAndValidate binds the request body into payload and validates it.
//
// A body that cannot be decoded yields a 400 with InvalidBodyMessage. A body
// with an unsupported content type is treated as empty, so the payload's own
// rules decide the response. A body cut off by the body limit stays a 413.
// EmptyRequest payloads are never bound.
// Validation failures yield a 400 whose message is the first field's
// message.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if _, empty := payload.(*EmptyRequest); !empty {
		if err := c.Bind(payload); err != nil {
			switch {
			case errors.Is(err, echo.ErrStatusRequestEntityTooLarge):
				return echo.ErrStatusRequestEntityTooLarge
			case !errors.Is(err, echo.ErrUnsupportedMediaType):
				return errs.NewBadRequestError(InvalidBodyMessage, nil, nil)
			}
		}
	}

	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		return errs.ValidationError(msg, fieldErrors)
	}

	return nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		fieldErrors := make([]errs.FieldError, 0, len(custom))
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return custom.Error(), fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}
		case "max":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}
		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: msg})
	}

	return "Validation failed", fieldErrors
}
