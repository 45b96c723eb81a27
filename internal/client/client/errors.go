package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrMalformedResponse = errors.New("malformed server response")
)

// RequestFailedError is a request the server rejected.
type RequestFailedError struct {
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}
