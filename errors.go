package a2aclient

import (
	"errors"
	"fmt"
)

// ErrEmptyResult is returned when the agent answers with a null or missing
// result.
var ErrEmptyResult = errors.New("agent returned empty result")

// ErrInvalidTextPart is returned when a text part carries a non-string text.
var ErrInvalidTextPart = errors.New("text part is not a string")

// ErrorKind classifies a ClientError.
type ErrorKind int

const (
	// KindConnection wraps a transport failure: HTTP status, network, body
	// decoding or a JSON-RPC error object.
	KindConnection ErrorKind = iota + 1
	// KindUnexpected wraps any other failure during a turn.
	KindUnexpected
)

// String returns the lowercase name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// ClientError is returned by SendMessage once the failure has been recorded
// on the turn. Use errors.As to branch on Kind and errors.As / errors.Is on
// the wrapped cause (for example *transport.Error).
type ClientError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *ClientError) Unwrap() error { return e.Err }
