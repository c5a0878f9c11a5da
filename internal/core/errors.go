package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned when no catalog API key has been configured.
var ErrMissingAPIKey = errors.New("no API key configured")

// ValidationError reports malformed local input. No network call was made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation error"
	}
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthError means the upstream rejected the API key.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e == nil || strings.TrimSpace(e.Message) == "" {
		return "upstream rejected the API key"
	}
	return "upstream rejected the API key: " + e.Message
}

// NotFoundError means the upstream has no record for the requested ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.ID == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.ID)
}

// UpstreamError is a structured application failure other than not-found.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream error"
	}
	return "upstream error: " + e.Message
}

// TransportError wraps network, timeout, HTTP status and decode failures.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	if e == nil || e.Cause == nil {
		return "transport error"
	}
	return "transport error: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTransport reports whether err carries a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsAuth reports whether err carries an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
