package testutil

import (
	"time"

	"github.com/kagenti/a2aclient/core"
)

type plannedTurn struct {
	input  string
	output string
	errMsg string
	failed bool
}

// SessionBuilder helps construct sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1").Metadata("k", "v").CompletedTurn("hi", "hello").Build()
type SessionBuilder struct {
	id       string
	agentURL string
	metadata map[string]any
	clock    func() time.Time
	turns    []plannedTurn
}

// NewSessionBuilder creates a new builder for a session with the given id.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, agentURL: "http://agent.test", metadata: map[string]any{}}
}

// AgentURL sets the agent address (chainable).
func (b *SessionBuilder) AgentURL(u string) *SessionBuilder { b.agentURL = u; return b }

// Metadata sets or overwrites a metadata key/value pair (chainable).
func (b *SessionBuilder) Metadata(key string, val any) *SessionBuilder {
	b.metadata[key] = val
	return b
}

// Clock sets the time source used by the session (chainable).
func (b *SessionBuilder) Clock(now func() time.Time) *SessionBuilder { b.clock = now; return b }

// CompletedTurn appends a turn finalized with output (chainable).
func (b *SessionBuilder) CompletedTurn(input, output string) *SessionBuilder {
	b.turns = append(b.turns, plannedTurn{input: input, output: output})
	return b
}

// FailedTurn appends a turn finalized with an error message (chainable).
func (b *SessionBuilder) FailedTurn(input, errMsg string) *SessionBuilder {
	b.turns = append(b.turns, plannedTurn{input: input, errMsg: errMsg, failed: true})
	return b
}

// Build returns a *core.Session with the configured metadata and turns.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id, b.agentURL, func(o *core.SessionOptions) {
		o.Metadata = b.metadata
		o.Clock = b.clock
	})

	for _, pt := range b.turns {
		turn := s.AddTurn(pt.input)
		if pt.failed {
			_ = turn.Fail(pt.errMsg)
		} else {
			_ = turn.Complete(pt.output, nil)
		}
	}

	return s
}
