package analyses

import (
	"errors"
	"fmt"
)

// Kind classifies analysis failures for logs and metrics. Clients always get
// the same 500 regardless of kind.
type Kind string

const (
	KindConfig   Kind = "config"
	KindProvider Kind = "provider"
	KindParse    Kind = "parse"
	KindUnknown  Kind = "unknown"
)

var (
	ErrNoGenerator = errors.New("no generation provider configured")
	ErrMissingText = errors.New("unstructured_text is required")
	ErrSchema      = errors.New("model output does not match schema")
)

// Error is a classified analysis failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return string(KindUnknown)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf reports the kind of err, or KindUnknown if it was never classified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) && ae != nil && ae.Kind != "" {
		return ae.Kind
	}
	return KindUnknown
}

// DetailMessage is the client-facing message for a failed analysis.
func DetailMessage(err error) string {
	return fmt.Sprintf("An internal error occurred: %v", err)
}
