package errors

import (
	"fmt"
	"time"
)

// ErrCanceled is returned when the caller aborts a wait before the operation
// being waited on reaches a terminal state. It reports nothing about the
// operation itself, which may still complete server-side.
var ErrCanceled = New("wait canceled")

// ValidationError represents a mount or policy that was rejected before any
// network call was made.
type ValidationError struct {
	Reason string
}

func (err ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", err.Reason)
}

// NewValidationError creates a ValidationError with a formatted reason.
func NewValidationError(format string, args ...interface{}) error {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// APIError represents a transport or HTTP-level failure while talking to the
// Stowage service. RequestID identifies the failed request for support
// escalation, when the service got far enough to assign one.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (err APIError) Error() string {
	msg := fmt.Sprintf("stowage API error (status %d): %s", err.StatusCode, err.Message)
	if err.RequestID != "" {
		msg += fmt.Sprintf(" (request %s)", err.RequestID)
	}
	return msg
}

// ClearanceTimeoutError is returned when a clear task doesn't reach a
// terminal state before the deadline. The clear may still be running
// server-side, which is why this is distinct from other timeouts.
type ClearanceTimeoutError struct {
	ContextID string
	TaskID    string
	Timeout   time.Duration
}

func (err ClearanceTimeoutError) Error() string {
	return fmt.Sprintf("clear of context %q (task %s) didn't finish within %s. "+
		"The clear may still be running server-side",
		err.ContextID, err.TaskID, err.Timeout)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}
