package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNetwork is returned when no response reached the server.
	ErrNetwork = errors.New("network error")

	// ErrServer is returned when the server rejected the request with a
	// non-2xx status.
	ErrServer = errors.New("server error")

	// ErrUnauthorized is returned on an HTTP 401 from any operation.
	ErrUnauthorized = errors.New("unauthorized")
)

// NetworkError is returned when the request never produced a response
// (DNS failure, connection refused, timeout, cancelled context).
type NetworkError struct {
	// Cause is the underlying transport error.
	Cause error
}

// Error returns a human-readable description of the network failure.
func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("network error: %v", e.Cause)
	}
	return "network error"
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrNetwork).
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// ServerError is returned when the server responded with a non-2xx,
// non-401 status. Message carries the server's error payload.
type ServerError struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the error message from the response body.
	Message string
}

// Error returns a human-readable description of the server rejection.
func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrServer).
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// AuthorizationError is returned on an HTTP 401 from any operation.
// By the time the caller sees it, the token store has been cleared and the
// unauthorized hook has fired.
type AuthorizationError struct {
	// Message is the error message from the response body.
	Message string
}

// Error returns a human-readable description of the authorization failure.
func (e *AuthorizationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unauthorized: %s", e.Message)
	}
	return "unauthorized"
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrUnauthorized).
func (e *AuthorizationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// messageOf extracts the surface message from a client error for display
// and for recording into the session error field.
func messageOf(err error) string {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Message
	}
	var authErr *AuthorizationError
	if errors.As(err, &authErr) {
		if authErr.Message != "" {
			return authErr.Message
		}
		return "session expired"
	}
	if errors.Is(err, ErrNetwork) {
		return "server unreachable"
	}
	return err.Error()
}
