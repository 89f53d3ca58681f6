package artifact

import (
	"fmt"
	"maps"
	"sync"

	"github.com/kagenti/a2aclient/a2a"
)

type sessionArtifacts struct {
	order []string
	byID  map[string]a2a.Artifact
}

// InMemoryStore is an in-process ArtifactStore. Artifacts are copied on save
// and on retrieval so callers never share slices or maps with the store.
//
// Layout: sessionID -> artifactID -> artifact, plus the first-save order.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionArtifacts
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*sessionArtifacts)}
}

// Save stores (or overwrites) the artifact under its ArtifactID. Overwriting
// keeps the original position in List.
func (a *InMemoryStore) Save(sessionID string, artifact a2a.Artifact) error {
	if artifact.ArtifactID == "" {
		return ErrMissingID
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	sa, ok := a.sessions[sessionID]
	if !ok {
		sa = &sessionArtifacts{byID: make(map[string]a2a.Artifact)}
		a.sessions[sessionID] = sa
	}

	if _, exists := sa.byID[artifact.ArtifactID]; !exists {
		sa.order = append(sa.order, artifact.ArtifactID)
	}
	sa.byID[artifact.ArtifactID] = clone(artifact)

	return nil
}

// Get returns a copy of the stored artifact or ErrNotFound.
func (a *InMemoryStore) Get(sessionID, artifactID string) (a2a.Artifact, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sa, ok := a.sessions[sessionID]
	if !ok {
		return a2a.Artifact{}, fmt.Errorf("%w: %s/%s", ErrNotFound, sessionID, artifactID)
	}

	artifact, ok := sa.byID[artifactID]
	if !ok {
		return a2a.Artifact{}, fmt.Errorf("%w: %s/%s", ErrNotFound, sessionID, artifactID)
	}

	return clone(artifact), nil
}

// List returns the session's artifacts in first-save order. An unknown
// session yields an empty slice.
func (a *InMemoryStore) List(sessionID string) ([]a2a.Artifact, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	sa, ok := a.sessions[sessionID]
	if !ok {
		return []a2a.Artifact{}, nil
	}

	out := make([]a2a.Artifact, 0, len(sa.order))
	for _, id := range sa.order {
		out = append(out, clone(sa.byID[id]))
	}

	return out, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(sessionID, artifactID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	sa, ok := a.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, sessionID, artifactID)
	}
	if _, ok := sa.byID[artifactID]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, sessionID, artifactID)
	}

	delete(sa.byID, artifactID)
	for i, id := range sa.order {
		if id == artifactID {
			sa.order = append(sa.order[:i], sa.order[i+1:]...)
			break
		}
	}

	if len(sa.byID) == 0 {
		delete(a.sessions, sessionID)
	}

	return nil
}

// DeleteSession drops all artifacts of the session.
func (a *InMemoryStore) DeleteSession(sessionID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	sa, ok := a.sessions[sessionID]
	if !ok {
		return 0
	}

	delete(a.sessions, sessionID)

	return len(sa.byID)
}

func clone(artifact a2a.Artifact) a2a.Artifact {
	out := artifact
	if artifact.Parts != nil {
		out.Parts = make([]a2a.Part, len(artifact.Parts))
		copy(out.Parts, artifact.Parts)
	}
	out.Metadata = maps.Clone(artifact.Metadata)
	return out
}
