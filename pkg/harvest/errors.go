package harvest

import (
	"errors"
	"fmt"
)

// Common errors returned by the harvester.
var (
	// ErrMissingItems is returned when a page response has no items array.
	ErrMissingItems = errors.New("items array missing or malformed")

	// ErrInvalidField is returned when a record lacks a required field or
	// carries it with the wrong type.
	ErrInvalidField = errors.New("invalid record field")
)

// ErrorClass represents the category of a harvest failure.
type ErrorClass string

const (
	// ErrorClassTransport represents a request that could not be sent or a
	// response that could not be received.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassParse represents a body that is not valid JSON or has no
	// usable items array.
	ErrorClassParse ErrorClass = "parse"

	// ErrorClassField represents a record missing a required field.
	ErrorClassField ErrorClass = "field"

	// ErrorClassWrite represents an output destination that could not be written.
	ErrorClassWrite ErrorClass = "write"
)

// Error represents a fatal harvest or output failure with its classification.
type Error struct {
	Class ErrorClass

	// Page is the page number being processed (0 when not page-related).
	Page int

	// Index is the position of the offending record within the page
	// (-1 when not record-related).
	Index int

	// Field is the offending record field, if any.
	Field string

	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Class)
	if e.Page > 0 {
		msg += fmt.Sprintf(" (page %d", e.Page)
		if e.Index >= 0 {
			msg += fmt.Sprintf(", item %d", e.Index)
		}
		msg += ")"
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassOf returns the classification of err, or "" if err is not a harvest error.
func ClassOf(err error) ErrorClass {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Class
	}
	return ""
}

// statusError is implemented by fetch errors that carry the status of a
// received response.
type statusError interface {
	HTTPStatus() int
}

// fetchError classifies a failed page fetch. A response that arrived with an
// unusable status is a parse failure; anything else never got a response.
func fetchError(page int, err error) *Error {
	var se statusError
	if errors.As(err, &se) && se.HTTPStatus() != 0 {
		return parseError(page, "unexpected response", err)
	}
	return transportError(page, err)
}

func transportError(page int, err error) *Error {
	return &Error{Class: ErrorClassTransport, Page: page, Index: -1, Message: "fetch page", Err: err}
}

func parseError(page int, msg string, err error) *Error {
	return &Error{Class: ErrorClassParse, Page: page, Index: -1, Message: msg, Err: err}
}

func fieldError(field, msg string) *Error {
	return &Error{Class: ErrorClassField, Index: -1, Field: field, Message: msg, Err: ErrInvalidField}
}

// WriteError wraps an output failure for the given destination.
func WriteError(path string, err error) *Error {
	return &Error{Class: ErrorClassWrite, Index: -1, Message: fmt.Sprintf("write %s", path), Err: err}
}
