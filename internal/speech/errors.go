package speech

import (
	"errors"
	"fmt"
)

// ErrSynthesisService matches every *Error.
var ErrSynthesisService = errors.New("synthesis service error")

type Kind string

const (
	KindNetwork    Kind = "network"
	KindEmptyInput Kind = "empty-input"
)

// Error is a failure of the text-to-speech step. StatusCode is set when the service answered.
type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("synthesis service error (%s)", e.Kind)
	}
	return fmt.Sprintf("synthesis service error (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrSynthesisService }

// KindOf returns the Kind of a synthesis error, or "" if err is not one.
func KindOf(err error) Kind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return ""
}
