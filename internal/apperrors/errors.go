// Package apperrors holds the failure taxonomy shared by the console client
// and the workflow: transport failures, rejected requests, malformed bodies
// and local precondition violations.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// GenericMessage is shown when a failure carries no server-supplied detail.
const GenericMessage = "An error occurred"

// NetworkError means no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError means the server answered with a non-2xx status.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}

// DecodeError means a success response body could not be parsed.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError means a precondition was not met. Local checks leave Err
// nil; a backend rejection keeps the HTTPError in Err.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is an HTTP 404 from the backend.
func IsNotFound(err error) bool {
	var h *HTTPError
	return errors.As(err, &h) && h.Status == http.StatusNotFound
}

// Message returns the text an operator should see for err: the backend
// detail when there is one, the local validation message, or a generic one.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var h *HTTPError
	if errors.As(err, &h) {
		if h.Detail != "" {
			return h.Detail
		}
		return GenericMessage
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	return GenericMessage
}
