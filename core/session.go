package core

import (
	"maps"
	"sync"
	"time"
)

// Session represents one logical conversation with one agent endpoint. The
// identity fields (ID, AgentURL, CreatedAt) are fixed at construction; all
// mutable state is reached through methods and is safe for concurrent access.
//
// Contract:
//   - LastActivity never moves backwards; AddTurn and Touch refresh it
//   - Turns preserves insertion order and is never reordered or deduplicated
//   - Deactivate is one-way: a deactivated session never becomes active again
//   - Turns/History/Metadata return defensive copies
type Session struct {
	ID        string    `json:"id"`
	AgentURL  string    `json:"agent_url"`
	CreatedAt time.Time `json:"created_at"`

	mu           sync.RWMutex
	now          func() time.Time
	lastActivity time.Time
	turns        []*ConversationTurn
	metadata     map[string]any
	active       bool
}

// SessionOptions configures construction of a Session.
type SessionOptions struct {
	// Metadata seeds the free-form session metadata (copied).
	Metadata map[string]any
	// Clock overrides time.Now for timestamps. Mostly useful in tests.
	Clock func() time.Time
}

// NewSession creates an active session with the given identifier and agent URL.
func NewSession(id, agentURL string, optFns ...func(o *SessionOptions)) *Session {
	opts := SessionOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	metadata := make(map[string]any, len(opts.Metadata))
	maps.Copy(metadata, opts.Metadata)

	now := opts.Clock()

	return &Session{
		ID:           id,
		AgentURL:     agentURL,
		CreatedAt:    now,
		now:          opts.Clock,
		lastActivity: now,
		turns:        []*ConversationTurn{},
		metadata:     metadata,
		active:       true,
	}
}

// LastActivity returns the time of the most recent turn addition or refresh.
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// Touch refreshes the last activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
}

// touchLocked advances lastActivity; caller must hold the write lock.
func (s *Session) touchLocked() {
	if now := s.now(); now.After(s.lastActivity) {
		s.lastActivity = now
	}
}

// AddTurn appends a new pending turn for the given input and returns it. The
// turn's ID doubles as the correlation id of the remote call it belongs to.
func (s *Session) AddTurn(input string) *ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := newConversationTurn(NewID(), input, s.now())
	s.turns = append(s.turns, turn)
	s.touchLocked()

	return turn
}

// Turns returns a copy of the full turn sequence in insertion order.
func (s *Session) Turns() []*ConversationTurn {
	return s.History(0)
}

// History returns the most recent maxTurns turns in insertion order. A
// non-positive maxTurns returns every turn.
func (s *Session) History(maxTurns int) []*ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if maxTurns > 0 && maxTurns < len(s.turns) {
		start = len(s.turns) - maxTurns
	}

	turns := make([]*ConversationTurn, len(s.turns)-start)
	copy(turns, s.turns[start:])
	return turns
}

// TurnCount returns the number of turns recorded so far.
func (s *Session) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Metadata returns a copy of the session metadata.
func (s *Session) Metadata() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.metadata)
}

// SetMetadata sets a single metadata key.
func (s *Session) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

// IsActive reports whether the session is still registered with its store.
func (s *Session) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Deactivate permanently clears the active flag. Stores call it right before
// dropping the session from the registry.
func (s *Session) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// IsExpired reports whether the idle time measured against now exceeds timeout.
func (s *Session) IsExpired(timeout time.Duration, now time.Time) bool {
	return now.Sub(s.LastActivity()) > timeout
}

// SessionStore is the concurrency-safe registry of conversation sessions.
// Every method must be safe under concurrent invocation.
type SessionStore interface {
	// Create registers a new session. An empty id is replaced by a generated
	// one; an existing id fails with ErrDuplicateSession.
	Create(agentURL, id string, metadata map[string]any) (*Session, error)
	// Get is a pure lookup.
	Get(id string) (*Session, bool)
	// GetOrCreate refreshes and returns the session registered under id, or
	// creates it. Concurrent calls for the same new id observe one session.
	GetOrCreate(id, agentURL string, metadata map[string]any) (*Session, error)
	// Close deactivates and removes the session, reporting whether it existed.
	Close(id string) bool
	// SweepExpired removes every session idle longer than timeout and returns
	// the removed ids. A non-positive timeout selects the store default.
	SweepExpired(timeout time.Duration) []string
	// ListActive snapshots the ids of active sessions.
	ListActive() []string
	// Count returns the number of active sessions.
	Count() int
	// ClearAll deactivates and removes every session, returning how many.
	ClearAll() int
}
