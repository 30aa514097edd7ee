package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrEntityNotFound    = errors.New("entity not found")
	ErrEntityUnavailable = errors.New("entity unavailable")
	ErrTransport         = errors.New("hub transport failure")
	ErrDiscoveryPublish  = errors.New("discovery publish failed")
	ErrUnknownState      = errors.New("unknown state")
	ErrUnexpectedState   = errors.New("unexpected hub state")
)

// TransportError reports a network failure, a timeout or a non-2xx answer
// from the hub. StatusCode is zero when no response was received.
type TransportError struct {
	Op         string
	EntityID   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrTransport, e.Op)
	if e.EntityID != "" {
		msg += " " + e.EntityID
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

func InvalidIdentifier(kind string, id any) error {
	return fmt.Errorf("%w: unknown %s %v", ErrInvalidIdentifier, kind, id)
}
