package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 HTTPError for invalid client input.
//
// code may be nil, in which case it defaults to "BAD_REQUEST".
func NewBadRequestError(message string, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Kind:    KindValidation,
		Errors:  errors,
	}
}

// NewNotFoundError creates a 404 HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)),
		Message: message,
		Status:  http.StatusNotFound,
		Kind:    KindRouting,
	}
}

// NewMethodNotAllowedError creates a 405 HTTPError.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusMethodNotAllowed)),
		Message: http.StatusText(http.StatusMethodNotAllowed),
		Status:  http.StatusMethodNotAllowed,
		Kind:    KindRouting,
	}
}

// NewInternalServerError creates a generic 500 HTTPError.
//
// The message is the status text, never the underlying error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
		Kind:    KindUnexpected,
	}
}

// NewCollaboratorError wraps an error reported by the names store.
//
// message is the generic text shown to the client; cause is kept for logs.
// code is the store-derived error code (e.g. "NAME_ALREADY_EXISTS") and may
// be empty.
func NewCollaboratorError(message, code string, cause error) *HTTPError {
	if code == "" {
		code = "COLLABORATOR_ERROR"
	}

	return &HTTPError{
		Code:    code,
		Message: message,
		Status:  http.StatusInternalServerError,
		Kind:    KindCollaborator,
		cause:   cause,
	}
}

// NewUnexpectedFault wraps any other fault raised while handling a request.
func NewUnexpectedFault(message string, cause error) *HTTPError {
	return &HTTPError{
		Code:    "UNEXPECTED_FAULT",
		Message: message,
		Status:  http.StatusInternalServerError,
		Kind:    KindUnexpected,
		cause:   cause,
	}
}

// ValidationError converts a validation failure into a 400 HTTPError
// carrying message verbatim.
func ValidationError(message string, fieldErrors []FieldError) *HTTPError {
	return NewBadRequestError(message, nil, fieldErrors)
}
