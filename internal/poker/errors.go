package poker

import (
	"errors"
	"fmt"
)

// NetworkError is a transport failure (HTTP fetch or socket). Transient.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError is a malformed or unexpected payload. The payload is dropped
// and whatever was rendered before stays on screen.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: protocol error: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ValidationError is a local bound check failure; it never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ApplicationError carries a server-reported failure, shown verbatim.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// UserMessage turns any error into an inline status line.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	var messenger interface{ UserMessage() string }
	if errors.As(err, &messenger) {
		if msg := messenger.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
