package errs

import "errors"

// NewBadRequestError creates a KindBadInput error.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_INPUT")
//   - fieldErrors: optional slice of field errors (validation errors)
func NewBadRequestError(message string, code *string, fieldErrors []FieldError) *Error {
	formattedCode := KindBadInput.String()
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Code:    formattedCode,
		Message: message,
		Kind:    KindBadInput,
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a KindNotFound error.
func NewNotFoundError(message string, code *string) *Error {
	formattedCode := KindNotFound.String()
	if code != nil {
		formattedCode = *code
	}

	return &Error{
		Code:    formattedCode,
		Message: message,
		Kind:    KindNotFound,
	}
}

// NewInternalError wraps cause into a KindInternal error. The message
// stays generic; the cause is kept for logging.
func NewInternalError(cause error) *Error {
	return &Error{
		Code:    KindInternal.String(),
		Message: "An internal error occurred while talking to the store",
		Kind:    KindInternal,
		Err:     cause,
	}
}

// ValidationError converts a generic validation error into a bad-input Error.
func ValidationError(err error) *Error {
	e := NewBadRequestError("Validation failed: "+err.Error(), nil, nil)
	e.Err = err
	return e
}

// IsBadInput reports whether err is, or wraps, a KindBadInput *Error.
func IsBadInput(err error) bool {
	return kindOf(err) == KindBadInput
}

// IsInternal reports whether err is an internal failure. Errors that are
// not *Error at all count as internal.
func IsInternal(err error) bool {
	return kindOf(err) == KindInternal
}

func kindOf(err error) Kind {
	if err == nil {
		return -1
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
