package core

import "github.com/kagenti/a2aclient/a2a"

// ArtifactStore retains the artifacts agents return, scoped by session id.
// Implementations must be safe for concurrent use.
type ArtifactStore interface {
	// Save stores or overwrites an artifact. The artifact id must be set.
	Save(sessionID string, artifact a2a.Artifact) error
	// Get returns a copy of one artifact.
	Get(sessionID, artifactID string) (a2a.Artifact, error)
	// List returns copies of the session's artifacts in first-save order.
	List(sessionID string) ([]a2a.Artifact, error)
	// Delete removes one artifact.
	Delete(sessionID, artifactID string) error
	// DeleteSession drops every artifact of a session and returns how many.
	DeleteSession(sessionID string) int
}
