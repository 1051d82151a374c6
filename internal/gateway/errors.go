package gateway

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a Gateway matches exactly one of them
// with errors.Is.
var (
	// ErrNotFound is returned when the addressed table or row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrTransient is returned for failures worth retrying: timeouts, unreachable backend, throttling.
	ErrTransient = errors.New("transient failure")
	// ErrPermissionDenied is returned when the backend refuses the credentials or row policy.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidRequest is returned when the backend rejects the request itself.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInternal is returned for backend failures that fit no other kind.
	ErrInternal = errors.New("internal backend failure")
)

var errMissingFilter = errors.New("update and delete need at least one filter")

// Error describes a failed gateway call.
type Error struct {
	Op    Op
	Table Table
	Kind  error
	Err   error
}

// NewError builds an Error; a nil kind becomes ErrInternal.
func NewError(op Op, table Table, kind, err error) *Error {
	if kind == nil {
		kind = ErrInternal
	}

	return &Error{Op: op, Table: table, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gateway %s %s: %v", e.Op, e.Table, e.Kind)
	}

	return fmt.Sprintf("gateway %s %s: %v: %v", e.Op, e.Table, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// CallerError ties a failed gateway call to a sentinel of the calling package.
type CallerError struct {
	Sentinel error
	Op       string
	Err      error
}

// Wrap returns err annotated with op that matches both sentinel and the
// kind carried by err with errors.Is.
func Wrap(sentinel error, op string, err error) error {
	return &CallerError{Sentinel: sentinel, Op: op, Err: err}
}

func (e *CallerError) Error() string {
	return e.Op + ": " + e.Sentinel.Error() + ": " + e.Err.Error()
}

func (e *CallerError) Unwrap() []error { return []error{e.Sentinel, e.Err} }

var kinds = []error{
	ErrNotFound,
	ErrConflict,
	ErrTransient,
	ErrPermissionDenied,
	ErrInvalidRequest,
	ErrInternal,
}

// KindOf returns the error kind carried by err, nil for a nil error and
// ErrInternal for errors that carry none.
func KindOf(err error) error {
	if err == nil {
		return nil
	}

	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}

	return ErrInternal
}

// KindLabel is the short metric/log label of err's kind.
func KindLabel(err error) string {
	switch KindOf(err) {
	case nil:
		return "ok"
	case ErrNotFound:
		return "not_found"
	case ErrConflict:
		return "conflict"
	case ErrTransient:
		return "transient"
	case ErrPermissionDenied:
		return "permission_denied"
	case ErrInvalidRequest:
		return "invalid_request"
	default:
		return "internal"
	}
}
