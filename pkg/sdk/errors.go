package sdk

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401. Callers clear the session on it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer from the backend other than 401.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("error: %s", e.Message)
	}
	return fmt.Sprintf("API error (%d)", e.StatusCode)
}

// NetworkError means the request never got an HTTP answer.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// ServerMessage returns the backend-provided text carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
