package dispatch

import (
	"errors"
	"fmt"
)

// Usage errors, reported before any dispatch attempt.
var (
	ErrNoMessage        = errors.New("a message must be provided when not streaming notifications")
	ErrStreamAndMessage = errors.New("a message cannot be provided when using streaming")
)

// ValidateMode enforces the mutual exclusion of streaming mode and a
// literal message argument.
func ValidateMode(streamEnabled, hasMessage bool) error {
	switch {
	case streamEnabled && hasMessage:
		return ErrStreamAndMessage
	case !streamEnabled && !hasMessage:
		return ErrNoMessage
	}
	return nil
}

// NotifyError is a desktop notification backend failure.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("desktop notification failed: %v", e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// TransportError is an HTTP delivery failure. The wrapped error never
// contains the destination URL, so webhook secrets embedded in URLs
// cannot leak into user-facing output.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("webhook delivery failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
