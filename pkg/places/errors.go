package places

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrEmptyQuery is returned when a search is attempted with no query text.
	ErrEmptyQuery = errors.New("search query is required")
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx upstream responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx upstream responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport-level failures.
	ErrorClassNetwork ErrorClass = "network"
)

// RequestError represents a failed upstream request: either the transport
// failed outright or the API answered with a non-2xx status.
type RequestError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("places %s error: %s: %v", e.ErrorClass, e.Message, e.Err)
	}
	return fmt.Sprintf("places %s error (status %d): %s", e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// ParseError represents a response body that could not be decoded as the
// expected JSON shape.
type ParseError struct {
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("places response parse error: %v", e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// classify categorizes a response status or transport error.
func classify(statusCode int, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
