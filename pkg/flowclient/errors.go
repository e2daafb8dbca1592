package flowclient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind tells where a request failed.
type ErrorKind string

const (
	// KindNetwork means the request never completed.
	KindNetwork ErrorKind = "network"
	// KindProtocol means the backend answered with a non-2xx status.
	KindProtocol ErrorKind = "protocol"
	// KindDecode means the body was not the structured data expected.
	KindDecode ErrorKind = "decode"
)

// Error is the single failure shape returned by Client.
type Error struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	Reason     string
	Err        error
}

// Error returns the user facing reason.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Reason
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Detail renders the failure with its kind and endpoint for logs.
func (e *Error) Detail() string {
	if e == nil {
		return ""
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: %s error (http %d): %s", e.Method, e.Path, e.Kind, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s error: %s", e.Method, e.Path, e.Kind, e.Reason)
}

// IsKind reports whether err is a client error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return false
	}
	return cerr.Kind == kind
}

// Reason extracts the user facing reason from any error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Reason
	}
	return err.Error()
}

// protocolError builds the failure for a non-2xx answer. The body text wins
// over the synthesized status message.
func protocolError(method, path string, status int, body []byte) *Error {
	reason := strings.TrimSpace(string(body))
	if reason == "" {
		reason = fmt.Sprintf("http %d", status)
	}
	return &Error{
		Kind:       KindProtocol,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Reason:     reason,
	}
}

// networkError wraps a transport failure.
func networkError(method, path string, err error) *Error {
	return &Error{
		Kind:   KindNetwork,
		Method: method,
		Path:   path,
		Reason: err.Error(),
		Err:    err,
	}
}

// decodeError wraps a body that could not be parsed.
func decodeError(method, path string, status int, err error) *Error {
	return &Error{
		Kind:       KindDecode,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Reason:     "invalid response body: " + err.Error(),
		Err:        err,
	}
}
