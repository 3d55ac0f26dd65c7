package server

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionClosed is returned by writes to a session after Close.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrMaxSessionsReached rejects a live session over MaxSessions.
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrNoRoot is returned when a page is requested before a root component is set.
	ErrNoRoot = errors.New("server: no root component")
)

// SessionError is a connection failure of one live session. Op is "read",
// "write" or "ping".
type SessionError struct {
	SessionID string
	Op        string
	Err       error
}

func (e *SessionError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("server: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
