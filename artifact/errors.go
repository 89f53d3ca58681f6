package artifact

import "errors"

var (
	// ErrNotFound is returned when an artifact for the given session / id pair
	// does not exist in the underlying store.
	ErrNotFound = errors.New("artifact not found")
	// ErrMissingID is returned by Save when the artifact carries no id.
	ErrMissingID = errors.New("artifact id is required")
)
