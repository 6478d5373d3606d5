package schema

import (
	"errors"
	"fmt"
)

// All error kinds surfaced to callers. Strategy fit failures are contained
// inside the engine (fallback or omission) and never carry a kind of their own.
const (
	ValidationKind       ErrorKind = "validation_error"
	UnknownMethodKind    ErrorKind = "unknown_method"
	InsufficientDataKind ErrorKind = "insufficient_data"
	PersistenceKind      ErrorKind = "persistence_failure"
)

// EngineError is a classified failure with a human-readable detail message.
// Transports map Kind to their own status codes; the engine core only ever
// reasons about kinds.
type EngineError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewValidationError reports a malformed request. It always fails fast,
// before any computation starts.
func NewValidationError(format string, args ...any) *EngineError {
	return &EngineError{Kind: ValidationKind, Detail: fmt.Sprintf(format, args...)}
}

// NewUnknownMethodError reports a method identifier outside the closed set.
func NewUnknownMethodError(m Method) *EngineError {
	return &EngineError{
		Kind:   UnknownMethodKind,
		Detail: fmt.Sprintf("unknown forecasting method %q; valid methods are %v", m, AllMethods),
	}
}

// NewInsufficientDataError reports a series shorter than the operation's
// minimum, including the current length so the caller can explain the shortfall.
func NewInsufficientDataError(have, need int) *EngineError {
	return &EngineError{
		Kind:   InsufficientDataKind,
		Detail: fmt.Sprintf("series has %d observations, need at least %d", have, need),
	}
}

// NewPersistenceError reports a store read/write failure. Retryable by the
// caller; the forecast computation itself is never repeated.
func NewPersistenceError(op string, err error) *EngineError {
	return &EngineError{Kind: PersistenceKind, Detail: op, Err: err}
}

// KindOf extracts the error kind, or an empty kind for unclassified errors.
func KindOf(err error) ErrorKind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
