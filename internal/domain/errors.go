package domain

import "errors"

// ErrorKind classifies a failure from an external service so callers can
// map it to user-facing text without inspecting message strings.
type ErrorKind int

const (
	// KindGeneric is any failure without a more specific classification.
	KindGeneric ErrorKind = iota
	// KindRateLimited means the backend's AI quota is exhausted.
	KindRateLimited
)

// Error is a classified failure from an adapter.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "request failed"
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the classification from err, defaulting to generic.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindGeneric
}
