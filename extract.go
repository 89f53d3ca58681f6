package a2aclient

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/kagenti/a2aclient/a2a"
)

// ExtractOutput returns the text of every "text" part of every artifact in a
// message/send result, each followed by a newline, with trailing whitespace
// trimmed. When that yields nothing, the compact JSON of the whole result is
// returned instead so the output is never empty.
//
// A text part whose "text" member is present but not a JSON string fails
// with ErrInvalidTextPart.
func ExtractOutput(result json.RawMessage) (string, error) {
	var sb strings.Builder

	artifacts := gjson.GetBytes(result, "artifacts")
	if artifacts.IsArray() {
		for i, artifact := range artifacts.Array() {
			parts := artifact.Get("parts")
			if !parts.IsArray() {
				continue
			}

			for j, part := range parts.Array() {
				if part.Get("kind").String() != a2a.PartKindText {
					continue
				}

				text := part.Get("text")
				if !text.Exists() {
					continue
				}
				if text.Type != gjson.String {
					return "", fmt.Errorf("%w: artifact %d part %d has %s text", ErrInvalidTextPart, i, j, text.Type)
				}

				sb.WriteString(text.Str)
				sb.WriteString("\n")
			}
		}
	}

	if out := strings.TrimRightFunc(sb.String(), unicode.IsSpace); out != "" {
		return out, nil
	}

	return string(pretty.Ugly(result)), nil
}

// resultMetadata decodes the result into the map recorded on the turn. A
// result that is not an object is stored under the "result" key.
func resultMetadata(result json.RawMessage) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(result, &v); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	if m, ok := v.(map[string]any); ok {
		return m, nil
	}

	return map[string]any{"result": v}, nil
}

// decodeArtifacts returns the well-formed artifacts of a result. Entries
// without an id get "<turnID>-<index>". Malformed entries are reported by
// index through skipped.
func decodeArtifacts(result json.RawMessage, turnID string) (artifacts []a2a.Artifact, skipped []int) {
	list := gjson.GetBytes(result, "artifacts")
	if !list.IsArray() {
		return nil, nil
	}

	for i, raw := range list.Array() {
		var artifact a2a.Artifact
		if !raw.IsObject() || json.Unmarshal([]byte(raw.Raw), &artifact) != nil {
			skipped = append(skipped, i)
			continue
		}

		if artifact.ArtifactID == "" {
			artifact.ArtifactID = fmt.Sprintf("%s-%d", turnID, i)
		}

		artifacts = append(artifacts, artifact)
	}

	return artifacts, skipped
}
