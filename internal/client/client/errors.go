package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrAnalysisFailed = errors.New("analysis failed")
)

// StatusError is a non-2xx response that did not map to a sentinel.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}
