package core

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateSession is returned when a session id is already registered.
	ErrDuplicateSession = errors.New("session already exists")
	// ErrSessionNotFound is returned by lookups against an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTurnFinalized is returned when a turn is completed or failed twice.
	ErrTurnFinalized = errors.New("turn already finalized")
)

// NewID returns a random UUID string used for session, turn and message ids.
func NewID() string { return uuid.NewString() }
