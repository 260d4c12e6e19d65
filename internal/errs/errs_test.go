package errs

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHTTPErrorRendersOnlyMessage(t *testing.T) {
	err := NewCollaboratorError("Failed to save name", "NAME_ALREADY_EXISTS", errors.New("duplicate key value violates unique constraint"))

	body, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("marshal: %v", mErr)
	}

	if string(body) != `{"error":"Failed to save name"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestCollaboratorErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewCollaboratorError("Failed to fetch names", "", cause)

	if err.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.Status)
	}
	if err.Code != "COLLABORATOR_ERROR" {
		t.Errorf("expected default code, got %q", err.Code)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Kind != KindCollaborator {
		t.Error("expected collaborator kind")
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError("Name must be a string with at least 2 characters", []FieldError{{Field: "name", Error: "too short"}})

	if err.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.Status)
	}
	if err.Code != "BAD_REQUEST" {
		t.Errorf("expected BAD_REQUEST, got %q", err.Code)
	}
	if err.Kind != KindValidation {
		t.Errorf("expected validation kind, got %q", err.Kind)
	}
	if err.Cause() != nil {
		t.Error("expected no cause on a validation error")
	}
}

func TestWithMessage(t *testing.T) {
	base := NewNotFoundError("Route not found")
	copied := base.WithMessage("gone")

	if base.Message != "Route not found" {
		t.Error("WithMessage must not mutate the receiver")
	}
	if copied.Message != "gone" || copied.Status != base.Status {
		t.Errorf("unexpected copy %+v", copied)
	}
}
