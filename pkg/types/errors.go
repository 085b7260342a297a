package types

import (
	"errors"
	"fmt"
)

// ErrorCategory is the machine-readable class of a submission failure.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryNetwork    ErrorCategory = "network"
	CategoryServer     ErrorCategory = "server"
	CategorySchema     ErrorCategory = "schema"
	CategorySize       ErrorCategory = "size"
)

// ValidationError reports a locally rejected input (bad type, bad URL).
// These never reach the network or the lifecycle machine's Failed state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SizeExceededError reports a payload over the configured upload limit,
// caught before any network call.
type SizeExceededError struct {
	Size  int64
	Limit int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("file size %d exceeds maximum %d bytes", e.Size, e.Limit)
}

// NetworkError wraps a transport-level failure. The underlying error is
// preserved for logs but presentation layers see only the message.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx backend response. Detail carries the backend's
// message verbatim for display.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// SchemaError reports a response that did not parse into a valid result.
// Normalization degrades rather than fails on partial schemas, so this is
// reserved for bodies that are not usable at all.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("schema error: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Categorize maps an error to its taxonomy class. Unknown errors are treated
// as network failures, the conservative default for retry messaging.
func Categorize(err error) ErrorCategory {
	var (
		validation *ValidationError
		size       *SizeExceededError
		server     *ServerError
		schema     *SchemaError
	)

	switch {
	case errors.As(err, &validation):
		return CategoryValidation
	case errors.As(err, &size):
		return CategorySize
	case errors.As(err, &server):
		return CategoryServer
	case errors.As(err, &schema):
		return CategorySchema
	default:
		return CategoryNetwork
	}
}
