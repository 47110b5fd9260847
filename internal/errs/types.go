package errs

import (
	"fmt"
	"strings"
)

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "name", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Kind classifies an Error by who can fix it.
type Kind int

const (
	// KindInternal is a failure of the store or the program itself.
	KindInternal Kind = iota
	// KindBadInput means the values supplied by the user were rejected.
	KindBadInput
	// KindNotFound means a looked-up record does not exist.
	KindNotFound
)

// String returns the upper-case code used when an Error has none.
func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "BAD_INPUT"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// Error is the main custom error type.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "EMPLOYEE_NOT_FOUND").
//   - Message: human-friendly message, safe to print to the user.
//   - Kind: coarse category, see Kind.
//   - Errors: list of per-field errors (validation).
//   - Err: the underlying cause, kept for logs and errors.Is/As.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Kind    Kind         `json:"kind"`
	Errors  []FieldError `json:"errors"`
	Err     error        `json:"-"`
}

// Error returns the message followed by any field errors.
func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}

	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field, fe.Error))
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
//
// Code and Message are not compared, so
//
//	errors.Is(err, errs.NewNotFoundError("", nil))
//
// matches any not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithMessage returns a copy of this Error with Message replaced.
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Code:    e.Code,
		Message: message,
		Kind:    e.Kind,
		Errors:  e.Errors,
		Err:     e.Err,
	}
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
// Example:
//
//	"evaluation score" -> "EVALUATION_SCORE"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
