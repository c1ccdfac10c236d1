package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrRejected    = errors.New("submission rejected")
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// RejectedError is the outcome of a 2xx submit whose body says success:false.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "upload rejected by server"
	}
	return e.Message
}

func (e *RejectedError) Unwrap() error { return ErrRejected }
