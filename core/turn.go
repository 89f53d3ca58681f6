package core

import (
	"maps"
	"sync"
	"time"
)

// TurnStatus is the lifecycle state of a ConversationTurn.
type TurnStatus string

const (
	// TurnPending marks a turn whose remote call has not finished yet.
	TurnPending TurnStatus = "pending"
	// TurnCompleted marks a turn finalized with output text.
	TurnCompleted TurnStatus = "completed"
	// TurnFailed marks a turn finalized with an error message.
	TurnFailed TurnStatus = "failed"
)

// ConversationTurn is one request/response exchange within a Session.
//
// A turn is finalized exactly once, either by Complete (output text) or by
// Fail (error text). Output and error are therefore mutually exclusive.
type ConversationTurn struct {
	ID        string    `json:"id"`
	InputText string    `json:"input_text"`
	Timestamp time.Time `json:"timestamp"`

	mu       sync.RWMutex
	status   TurnStatus
	output   string
	errMsg   string
	metadata map[string]any
}

func newConversationTurn(id, input string, ts time.Time) *ConversationTurn {
	return &ConversationTurn{
		ID:        id,
		InputText: input,
		Timestamp: ts,
		status:    TurnPending,
		metadata:  map[string]any{},
	}
}

// Status returns the current lifecycle state.
func (t *ConversationTurn) Status() TurnStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// OutputText returns the agent output and true when the turn completed.
func (t *ConversationTurn) OutputText() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.output, t.status == TurnCompleted
}

// ErrorText returns the failure message and true when the turn failed.
func (t *ConversationTurn) ErrorText() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.errMsg, t.status == TurnFailed
}

// Metadata returns a copy of the turn metadata.
func (t *ConversationTurn) Metadata() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.metadata)
}

// Complete finalizes the turn with output text and merges metadata.
func (t *ConversationTurn) Complete(output string, metadata map[string]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != TurnPending {
		return ErrTurnFinalized
	}

	t.status = TurnCompleted
	t.output = output
	maps.Copy(t.metadata, metadata)

	return nil
}

// Fail finalizes the turn with an error message.
func (t *ConversationTurn) Fail(message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != TurnPending {
		return ErrTurnFinalized
	}

	t.status = TurnFailed
	t.errMsg = message

	return nil
}
