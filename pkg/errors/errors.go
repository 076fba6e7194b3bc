// Package errors defines the API error envelope codes and the sentinels
// the catalog layers wrap so handlers can map failures to HTTP statuses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by the catalog packages.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreFailure     = errors.New("store operation failed")
	ErrRateLimited      = errors.New("rate limited")
)

// Codes written to the "code" field of the error envelope.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeStoreError       = "STORE_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeForbidden        = "FORBIDDEN"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is an error that knows its envelope code and HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func newError(status int, code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: cause}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// NotFound reports a missing record of kind resource.
func NotFound(resource, id string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound,
		fmt.Sprintf("%s with id %s not found", resource, id), ErrNotFound)
}

// InvalidInput reports a request body that could not be used.
func InvalidInput(message string) *AppError {
	return newError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

// InvalidParameter reports a malformed query or path parameter.
func InvalidParameter(name, value, reason string) *AppError {
	return newError(http.StatusBadRequest, CodeInvalidParameter,
		fmt.Sprintf("invalid %s %q: %s", name, value, reason), ErrInvalidInput)
}

// StoreUnavailable is returned by operations that cannot fall back to demo
// data when no database is connected.
func StoreUnavailable(operation string) *AppError {
	return newError(http.StatusInternalServerError, CodeStoreUnavailable,
		operation+" requires a configured database", ErrStoreUnavailable)
}

// StoreFailure surfaces the store's own message to the client.
func StoreFailure(err error) *AppError {
	return newError(http.StatusInternalServerError, CodeStoreError,
		err.Error(), errors.Join(ErrStoreFailure, err))
}

func RateLimited() *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		"too many requests, please try again later", ErrRateLimited)
}

func Forbidden(message string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, message, nil)
}

// Internal hides err from the client behind a generic message.
func Internal(err error) *AppError {
	return newError(http.StatusInternalServerError, CodeInternal, "an internal error occurred", err)
}

// Wrap annotates err with message, keeping it matchable with errors.Is.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus maps err to a response status. AppErrors carry their own; bare
// sentinels are mapped; everything else is a 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
