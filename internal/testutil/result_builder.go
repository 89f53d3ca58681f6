package testutil

import (
	"github.com/kagenti/a2aclient/a2a"
)

// ResultBuilder provides a fluent helper for constructing message/send
// results in tests.
// Example:
//
//	res := NewResultBuilder().TextArtifact("hello", "world").Build()
type ResultBuilder struct {
	artifacts []a2a.Artifact
	fields    map[string]any
}

// NewResultBuilder creates an empty builder. Build on an empty builder yields {}.
func NewResultBuilder() *ResultBuilder { return &ResultBuilder{fields: map[string]any{}} }

// TextArtifact appends an artifact with one text part per string (chainable).
func (b *ResultBuilder) TextArtifact(texts ...string) *ResultBuilder {
	parts := make([]a2a.Part, 0, len(texts))
	for _, t := range texts {
		parts = append(parts, a2a.TextPart(t))
	}
	b.artifacts = append(b.artifacts, a2a.Artifact{Parts: parts})
	return b
}

// Artifact appends a fully specified artifact (chainable).
func (b *ResultBuilder) Artifact(a a2a.Artifact) *ResultBuilder {
	b.artifacts = append(b.artifacts, a)
	return b
}

// Field sets an additional top-level result field (chainable).
func (b *ResultBuilder) Field(key string, val any) *ResultBuilder {
	b.fields[key] = val
	return b
}

// Build returns the result object.
func (b *ResultBuilder) Build() map[string]any {
	out := make(map[string]any, len(b.fields)+1)
	for k, v := range b.fields {
		out[k] = v
	}
	if len(b.artifacts) > 0 {
		out["artifacts"] = b.artifacts
	}
	return out
}
