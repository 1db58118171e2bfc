package narrator

import (
	"errors"
	"fmt"
)

// ErrRewriteService matches every *Error.
var ErrRewriteService = errors.New("rewrite service error")

// Kind tells the user why narration could not be produced.
type Kind string

const (
	KindAuth          Kind = "auth"
	KindQuota         Kind = "quota"
	KindNetwork       Kind = "network"
	KindEmptyResponse Kind = "empty-response"
)

// Error is a failure of the text-generation service.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rewrite service error (%s)", e.Kind)
	}
	return fmt.Sprintf("rewrite service error (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrRewriteService }

// KindOf returns the Kind of a rewrite error, or "" if err is not one.
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}
