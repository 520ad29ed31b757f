package account

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const maxNameLength = 100

// FieldError describes a single invalid payload field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors is the list of problems found in a payload.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one error.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// normalizePayload trims names and lower-cases the email.
func normalizePayload(p Payload) Payload {
	return Payload{
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
	}
}

// validatePayload checks the attributes required to create an account.
// The returned error matches ErrInvalidPayload and unwraps to FieldErrors.
func validatePayload(p Payload) error {
	var errs FieldErrors

	switch {
	case p.Email == "":
		errs = append(errs, FieldError{Field: "email", Message: "is required"})
	case !validEmail(p.Email):
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if utf8.RuneCountInString(p.FirstName) > maxNameLength {
		errs = append(errs, FieldError{Field: "first_name", Message: fmt.Sprintf("must be at most %d characters", maxNameLength)})
	}
	if utf8.RuneCountInString(p.LastName) > maxNameLength {
		errs = append(errs, FieldError{Field: "last_name", Message: fmt.Sprintf("must be at most %d characters", maxNameLength)})
	}

	if len(errs) > 0 {
		return errors.Join(ErrInvalidPayload, errs)
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
