package services

import "fmt"

// TransportError represents a failed exchange with the benchmark service:
// the connection failed, or the service answered with a non-2xx status.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: service returned status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: service returned status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError represents a response body that is not a well-formed result list
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to decode response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to decode response: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
