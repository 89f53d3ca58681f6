package transport

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrClosed is wrapped by the *Error returned from calls on a closed Connection.
var ErrClosed = errors.New("connection closed")

// Kind classifies transport failures.
type Kind int

const (
	// KindConnection covers DNS failures, refused connections and timeouts.
	KindConnection Kind = iota + 1
	// KindHTTPStatus is a non-2xx HTTP response.
	KindHTTPStatus
	// KindEmptyResponse is a 2xx response without a body.
	KindEmptyResponse
	// KindInvalidResponse is a body that is not a JSON-RPC response object.
	KindInvalidResponse
	// KindRPC is a JSON-RPC error object returned by the agent.
	KindRPC
	// KindClosed is a call attempted after Close.
	KindClosed
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindHTTPStatus:
		return "http_status"
	case KindEmptyResponse:
		return "empty_response"
	case KindInvalidResponse:
		return "invalid_response"
	case KindRPC:
		return "rpc"
	case KindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by Connection. Fields beyond Kind
// and Message are populated only when they apply: StatusCode and Body for
// KindHTTPStatus, Code and Data for KindRPC.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Body       string
	Code       int64
	Data       json.RawMessage
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("http error %d: %s", e.StatusCode, e.Body)
	case KindConnection:
		return fmt.Sprintf("request error: %s", e.Message)
	case KindInvalidResponse:
		return fmt.Sprintf("invalid response encoding: %s", e.Message)
	case KindRPC:
		return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
	default:
		return e.Message
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a transport *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}
