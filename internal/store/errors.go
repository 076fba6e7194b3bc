package store

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no store is configured or connected.
var ErrUnavailable = errors.New("store unavailable")

// OpError records a failed store operation.
type OpError struct {
	Backend    string
	Op         string
	Collection string
	Err        error
}

func (e *OpError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Backend, e.Op, e.Collection, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err came from the store layer, either because
// no store is available or because an operation failed.
func IsStoreError(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var opErr *OpError
	return errors.As(err, &opErr)
}

// Recover returns v when err is nil and def when err is a store error. Any
// other error is returned unchanged. The boolean reports whether def was
// substituted.
func Recover[T any](v T, err error, def T) (T, bool, error) {
	switch {
	case err == nil:
		return v, false, nil
	case IsStoreError(err):
		return def, true, nil
	default:
		return v, false, err
	}
}
