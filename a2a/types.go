// Package a2a holds the declarative payload shapes exchanged with an A2A agent.
// The client treats them as plain structured data: it serializes outgoing
// messages and decodes the parts of a result it needs, nothing more.
package a2a

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Method names understood by A2A agents.
const (
	MethodSendMessage   = "message/send"
	MethodStreamMessage = "message/stream"
)

// PartKindText is the kind of a plain text part.
const PartKindText = "text"

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Part is one segment of a message or artifact.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Data any    `json:"data,omitempty"`
}

// TextPart returns a part of kind "text".
func TextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

// Message is the A2A message envelope sent as the "message" parameter.
type Message struct {
	Role      Role   `json:"role"`
	Parts     []Part `json:"parts"`
	MessageID string `json:"messageId"`
}

// NewTextMessage builds a single-part text message with a fresh message id.
func NewTextMessage(role Role, text string) Message {
	return Message{
		Role:      role,
		Parts:     []Part{TextPart(text)},
		MessageID: uuid.NewString(),
	}
}

// MessageSendParams is the params object of a message/send call.
type MessageSendParams struct {
	Message Message `json:"message"`
}

// Artifact is an output produced by the agent for a task.
type Artifact struct {
	ArtifactID  string         `json:"artifactId,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Text concatenates the text of every text part, newline separated.
func (a Artifact) Text() string {
	var sb strings.Builder
	for _, p := range a.Parts {
		if p.Kind == PartKindText {
			sb.WriteString(p.Text)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRightFunc(sb.String(), unicode.IsSpace)
}

// TaskStatus is the execution status reported to the caller.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskResponse is the caller-facing outcome of one send-message call.
type TaskResponse struct {
	TaskID       string         `json:"taskId"`
	SessionID    string         `json:"sessionId"`
	Status       TaskStatus     `json:"status"`
	Output       string         `json:"output,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}
