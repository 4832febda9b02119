package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRemote marks failures of external services. Handlers surface these
// with the AppError's message instead of a generic 500.
var ErrRemote = errors.New("remote service failure")

// AppError is an error carrying the HTTP status and code to respond with.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// RemoteFailure wraps a failed call to an external service.
func RemoteFailure(service string, err error) *AppError {
	return &AppError{
		Code:       "REMOTE_FAILURE",
		Message:    fmt.Sprintf("%s is currently unavailable", service),
		StatusCode: http.StatusBadGateway,
		Err:        errors.Join(ErrRemote, err),
	}
}
