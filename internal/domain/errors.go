package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSecret means the supplied text did not equal the configured
	// shared secret. Recoverable, the user may retry.
	ErrInvalidSecret = errors.New("secret key mismatch")

	// ErrNotAuthenticated means the session has not passed the secret gate yet.
	ErrNotAuthenticated = errors.New("session not authenticated")

	ErrSessionNotFound = errors.New("session not found")
)

// ConfigurationError reports required environment settings that are missing.
// Fatal at startup, nothing is served.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}

// GatewayConnectError means the remote agent client could not be constructed.
// Fatal for the current instance.
type GatewayConnectError struct {
	Err error
}

func (e *GatewayConnectError) Error() string {
	return "agent gateway connect: " + e.Err.Error()
}

func (e *GatewayConnectError) Unwrap() error { return e.Err }

// RemoteServiceError is a classified failure from the remote agent call,
// carrying the service's machine-readable code and human message.
type RemoteServiceError struct {
	Code    string
	Message string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service error %s: %s", e.Code, e.Message)
}

// StreamDecodeError is an isolated per-event decode failure. It is reported
// alongside the accumulated reply and never aborts stream consumption.
type StreamDecodeError struct {
	EventIndex int
	Reason     string
}

func (e *StreamDecodeError) Error() string {
	return fmt.Sprintf("stream event %d: %s", e.EventIndex, e.Reason)
}

// UnclassifiedError wraps any other failure during an invocation. Reported to
// the user the same way as a RemoteServiceError.
type UnclassifiedError struct {
	Err error
}

func (e *UnclassifiedError) Error() string {
	return "agent invocation: " + e.Err.Error()
}

func (e *UnclassifiedError) Unwrap() error { return e.Err }
