// Package gate holds the local precondition checks run before any
// completion call is made.
package gate

import (
	"errors"
	"fmt"
	"strings"
)

// Word ceilings used by the forms.
const (
	MaxWordsText = 700
	MaxWordsFile = 20000
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential format")
	ErrInputTooLong      = errors.New("input too long")
	ErrEmptyInput        = errors.New("empty input")
	ErrInvalidChoice     = errors.New("invalid choice")
)

// InputTooLongError reports the measured word count against the ceiling.
type InputTooLongError struct {
	Words int
	Limit int
}

func (e *InputTooLongError) Error() string {
	return fmt.Sprintf("input too long: %d words, maximum is %d", e.Words, e.Limit)
}

func (e *InputTooLongError) Unwrap() error { return ErrInputTooLong }

// Limits configures one gate.
type Limits struct {
	// MaxWords is the inclusive word ceiling. Zero disables the check.
	MaxWords int
	// CredentialPrefix is the literal prefix a credential must carry.
	// Empty disables the format check.
	CredentialPrefix string
}

// CountWords counts whitespace-delimited tokens. It is a rough proxy for the
// model's context size, not a tokenizer.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Check runs the input checks followed by the credential checks.
func Check(input string, cred *Credential, lim Limits) error {
	if err := CheckInput(input, lim); err != nil {
		return err
	}
	return CheckCredential(cred, lim)
}

func CheckInput(input string, lim Limits) error {
	if lim.MaxWords > 0 {
		if n := CountWords(input); n > lim.MaxWords {
			return &InputTooLongError{Words: n, Limit: lim.MaxWords}
		}
	}
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	return nil
}

// CheckCredential only looks at the shape of the credential. Whether the
// upstream accepts it is decided by the completion call.
func CheckCredential(cred *Credential, lim Limits) error {
	if cred.Empty() {
		return ErrMissingCredential
	}
	if lim.CredentialPrefix != "" && !cred.HasPrefix(lim.CredentialPrefix) {
		return ErrInvalidCredential
	}
	return nil
}

// CheckChoice verifies that value is one of the allowed options.
func CheckChoice(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %s", ErrInvalidChoice, field, strings.Join(allowed, ", "))
}
