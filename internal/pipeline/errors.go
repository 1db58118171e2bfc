package pipeline

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument means extraction succeeded but produced no readable text.
	ErrEmptyDocument = errors.New("document contains no readable text")
	// ErrNilDocument is returned when Run is called without a document.
	ErrNilDocument = errors.New("nil document")
	// ErrTimeout matches any stage that ran past its deadline.
	ErrTimeout = errors.New("stage timed out")
)

// Error is the failure of a run, tagged with the stage that failed.
type Error struct {
	Stage State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrTimeout && errors.Is(e.Err, context.DeadlineExceeded)
}

// StageOf returns the failed stage of err, or "" if err did not come from a run.
func StageOf(err error) State {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Stage
	}
	return ""
}
