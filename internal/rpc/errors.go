package rpc

import "fmt"

// ErrorType classifies a failed call.
type ErrorType string

const (
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeParseError  ErrorType = "parse_error"
	ErrorTypeRPC         ErrorType = "rpc_error"
	ErrorTypeOther       ErrorType = "other"
)

// CallError is returned by every Client method on failure.
type CallError struct {
	Method     string
	Type       ErrorType
	StatusCode int // HTTP status, 0 when the request never got a response
	Err        error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Method, e.Type, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
