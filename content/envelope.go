package content

import (
	"encoding/json"
	"strings"
)

// StructuralKeyPrefix marks content keys derived from document structure
// rather than authored explicitly.
const StructuralKeyPrefix = "global_"

// Envelope is the value stored for structurally keyed edits. OriginalText is
// the authored default captured at the moment of first edit and serves as the
// durable matching anchor when the structural key drifts across renders.
type Envelope struct {
	NewText      string `json:"newText"`
	OriginalText string `json:"originalText"`
}

// EncodeEnvelope serializes the envelope for storage in ContentValue.
func EncodeEnvelope(env Envelope) (string, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeEnvelope parses a stored value into an Envelope. Legacy records hold a
// bare string instead of the serialized pair; those decode to an envelope with
// an empty OriginalText so matching degrades to structural-key-only.
func DecodeEnvelope(raw string) Envelope {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var env Envelope
		if err := json.Unmarshal([]byte(trimmed), &env); err == nil {
			return env
		}
	}
	return Envelope{NewText: raw}
}

// IsStructuralKey reports whether a content key was derived from document
// structure by the overlay rather than authored explicitly.
func IsStructuralKey(key string) bool {
	return strings.HasPrefix(key, StructuralKeyPrefix)
}
