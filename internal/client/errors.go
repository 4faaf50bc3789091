package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

const (
	// CodeMalformedResponse marks a body that is not an envelope.
	CodeMalformedResponse = -1
	// CodeMalformedData marks an envelope whose data does not fit the expected type.
	CodeMalformedData = -2
)

var ErrSessionExpired = errors.New("session expired")

// NetworkError means no response was received: dial, DNS, timeout or a broken body.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// SessionExpiredError is returned for HTTP 401. The session has already been
// cleared when the caller sees it; the operation must not be retried.
type SessionExpiredError struct {
	Method string
	Path   string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrSessionExpired, e.Method, e.Path)
}

func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

// ApplicationError carries a failed envelope's code and message.
type ApplicationError struct {
	Code    int
	Message string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("application error %d: %s", e.Code, e.Message)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func AsApplication(err error) (*ApplicationError, bool) {
	var ae *ApplicationError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
