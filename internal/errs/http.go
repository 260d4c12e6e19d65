package errs

import "strings"

// FieldError represents a field-level validation failure.
// It is logged, not returned to clients.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Kind classifies an HTTPError by where it originated.
type Kind string

const (
	// KindValidation is malformed or missing client input.
	KindValidation Kind = "validation"

	// KindCollaborator is an error reported by the names store.
	KindCollaborator Kind = "collaborator"

	// KindUnexpected is any other fault raised while handling a request.
	KindUnexpected Kind = "unexpected"

	// KindRouting covers unknown routes and unsupported methods.
	KindRouting Kind = "routing"
)

// HTTPError is the error type rendered by the global error handler.
//
// Only Message reaches the client, under the "error" key. Code, Status,
// Kind, Errors and the wrapped cause are for logs.
type HTTPError struct {
	Code    string       `json:"-"`
	Message string       `json:"error"`
	Status  int          `json:"-"`
	Kind    Kind         `json:"-"`
	Errors  []FieldError `json:"-"`

	cause error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the cause so errors.As can reach store errors.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is also an *HTTPError.
//
// It does not compare fields; use errors.As and inspect Kind/Status for that.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// Cause returns the wrapped error, or nil.
func (e *HTTPError) Cause() error {
	return e.cause
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Kind:    e.Kind,
		Errors:  e.Errors,
		cause:   e.cause,
	}
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
