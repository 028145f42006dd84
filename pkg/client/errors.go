package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRateLimited is returned when the API quota is exhausted. The client
	// never waits for the quota to reset.
	ErrRateLimited = errors.New("rate limit exhausted")

	// ErrUnexpectedNotModified is returned for a 304 response to a request
	// that had no cached entry to fall back on.
	ErrUnexpectedNotModified = errors.New("304 Not Modified without cached entry")
)

// APIError represents a failed search request with additional context.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("API %s error: %s: %v", e.ErrorClass, e.Message, e.Err)
		}
		return fmt.Sprintf("API %s error: %s", e.ErrorClass, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("API %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("API %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status of the received response, or 0 when no
// response arrived.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}
