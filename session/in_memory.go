package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kagenti/a2aclient/core"
	"github.com/kagenti/a2aclient/logging"
)

// DefaultTimeout is the idle time after which SweepExpired removes a session
// when no explicit timeout is given.
const DefaultTimeout = 60 * time.Minute

// Options configures an InMemoryStore.
type Options struct {
	// DefaultTimeout is the sweep threshold used when SweepExpired receives a
	// non-positive timeout.
	DefaultTimeout time.Duration
	// Clock overrides time.Now for session timestamps and sweeps.
	Clock func() time.Time
	// Logger receives sweep and teardown diagnostics.
	Logger logging.Logger
}

// InMemoryStore is a volatile SessionStore keeping sessions in a process
// local map. A single mutex guards every registry read and write, which makes
// get-or-create and sweeps atomic. Per-session turn state is guarded by the
// session itself.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*core.Session
	opts     Options
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{
		DefaultTimeout: DefaultTimeout,
		Clock:          time.Now,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = DefaultTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &InMemoryStore{sessions: make(map[string]*core.Session), opts: opts}
}

// DefaultTimeout returns the store-wide sweep threshold.
func (s *InMemoryStore) DefaultTimeout() time.Duration {
	return s.opts.DefaultTimeout
}

// Create registers a new session. An empty id is replaced by a random one.
func (s *InMemoryStore) Create(agentURL, id string, metadata map[string]any) (*core.Session, error) {
	if id == "" {
		id = core.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		return nil, fmt.Errorf("%w: %s", core.ErrDuplicateSession, id)
	}

	return s.createLocked(agentURL, id, metadata), nil
}

// Get returns the session registered under id without touching it.
func (s *InMemoryStore) Get(id string) (*core.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	return sess, ok
}

// GetOrCreate returns the registered session after refreshing its activity,
// or creates it. The lookup and the insert happen under one lock hold.
func (s *InMemoryStore) GetOrCreate(id, agentURL string, metadata map[string]any) (*core.Session, error) {
	if id == "" {
		id = core.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Touch()
		return sess, nil
	}

	return s.createLocked(agentURL, id, metadata), nil
}

// Close deactivates and removes the session, reporting whether it existed.
func (s *InMemoryStore) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}

	sess.Deactivate()
	delete(s.sessions, id)

	return true
}

// SweepExpired removes every session whose idle time exceeds timeout, measured
// against the time of this call. The returned ids are sorted.
func (s *InMemoryStore) SweepExpired(timeout time.Duration) []string {
	if timeout <= 0 {
		timeout = s.opts.DefaultTimeout
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Clock()
	expired := []string{}

	for id, sess := range s.sessions {
		if sess.IsExpired(timeout, now) {
			sess.Deactivate()
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}

	sort.Strings(expired)

	if len(expired) > 0 {
		s.opts.Logger.Info("expired sessions removed", "count", len(expired), "timeout", timeout)
	}

	return expired
}

// ListActive returns a sorted snapshot of active session ids.
func (s *InMemoryStore) ListActive() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if sess.IsActive() {
			ids = append(ids, id)
		}
	}

	sort.Strings(ids)

	return ids
}

// Count returns the number of active sessions.
func (s *InMemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sess := range s.sessions {
		if sess.IsActive() {
			n++
		}
	}

	return n
}

// ClearAll deactivates and removes every session.
func (s *InMemoryStore) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sessions)
	for _, sess := range s.sessions {
		sess.Deactivate()
	}

	s.sessions = make(map[string]*core.Session)

	if n > 0 {
		s.opts.Logger.Debug("sessions cleared", "count", n)
	}

	return n
}

// createLocked allocates and stores a new session; caller must already hold
// the lock.
func (s *InMemoryStore) createLocked(agentURL, id string, metadata map[string]any) *core.Session {
	sess := core.NewSession(id, agentURL, func(o *core.SessionOptions) {
		o.Metadata = metadata
		o.Clock = s.opts.Clock
	})
	s.sessions[id] = sess
	return sess
}
