package validation

import (
	"strings"
	"unicode"
)

// NameRequiredMessage is the only message a rejected name ever produces.
const NameRequiredMessage = "Name must be a string with at least 2 characters"

// SaveNameRequest is the body of POST /api/save-name.
//
// Name is decoded as any so a number, object or null can be told apart from
// a missing field and rejected with the same message.
type SaveNameRequest struct {
	Name any `json:"name"`
}

// EmptyRequest is used by routes that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

// trimName strips surrounding whitespace, including the byte order mark.
func trimName(name string) string {
	return strings.TrimFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// Validate accepts only a JSON string that still has at least two
// characters after trimming surrounding whitespace.
func (r *SaveNameRequest) Validate() error {
	name, ok := r.Name.(string)
	if !ok {
		return CustomValidationErrors{{Field: "name", Message: NameRequiredMessage}}
	}

	if err := validate.Var(trimName(name), "min=2"); err != nil {
		return CustomValidationErrors{{Field: "name", Message: NameRequiredMessage}}
	}

	return nil
}

// Normalized returns the trimmed name. Call it only after Validate succeeds.
func (r *SaveNameRequest) Normalized() string {
	name, _ := r.Name.(string)
	return trimName(name)
}
