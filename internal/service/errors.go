package service

import (
	"errors"

	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/katakuxiko/promptforms/internal/prompt"
)

// Code maps an error to a stable snake_case identifier used in metrics
// labels and JSON error bodies. nil maps to "ok".
func Code(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, gate.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, gate.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, gate.ErrInputTooLong):
		return "input_too_long"
	case errors.Is(err, gate.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, gate.ErrInvalidChoice):
		return "invalid_choice"
	case errors.Is(err, gate.ErrDecode):
		return "decode_error"
	case errors.Is(err, prompt.ErrMissingPlaceholderValue):
		return "missing_placeholder_value"
	case errors.Is(err, ErrAuthentication):
		return "authentication_error"
	case errors.Is(err, ErrRateLimit):
		return "rate_limit_error"
	case errors.Is(err, ErrService):
		return "service_error"
	default:
		return "internal_error"
	}
}

// IsPrecondition reports whether err was raised before any network call
// because of operator input.
func IsPrecondition(err error) bool {
	return errors.Is(err, gate.ErrMissingCredential) ||
		errors.Is(err, gate.ErrInvalidCredential) ||
		errors.Is(err, gate.ErrInputTooLong) ||
		errors.Is(err, gate.ErrEmptyInput) ||
		errors.Is(err, gate.ErrInvalidChoice) ||
		errors.Is(err, gate.ErrDecode)
}
