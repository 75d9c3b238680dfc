package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a catalog lookup that matched nothing.
var ErrNotFound = errors.New("movie not found")

// TransportError means no response was obtained from the remote catalog.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError is a well-formed failure response from the remote catalog.
type ApplicationError struct {
	StatusCode int
	Message    string
}

func (e *ApplicationError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("catalog error: %s", e.Message)
	}
	return fmt.Sprintf("catalog error: %d %s", e.StatusCode, e.Message)
}
