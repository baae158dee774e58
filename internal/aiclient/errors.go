package aiclient

import "fmt"

// RequestError is a failed call to an AI endpoint: transport failure or a
// non-success status.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("request to %s failed", e.Endpoint)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// ParseError means the drained response body did not yield a usable JSON object
type ParseError struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error from %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error from %s: %s", e.Endpoint, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
