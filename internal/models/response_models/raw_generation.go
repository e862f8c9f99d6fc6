package response_models

import (
	"bytes"
	"encoding/json"
)

// RawResult is whatever a generation backend handed back before any
// interpretation: plain text (an SDK text part, or a JSON string inside a
// transport envelope) or an arbitrary JSON value.
type RawResult struct {
	text  *string
	value json.RawMessage
}

func TextResult(s string) RawResult {
	return RawResult{text: &s}
}

// JSONResult wraps a JSON value. A JSON string literal is unwrapped into a
// text result so callers need not know which envelope a backend uses.
func JSONResult(value json.RawMessage) RawResult {
	value = bytes.TrimSpace(value)
	if len(value) > 0 && value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			return TextResult(s)
		}
	}
	return RawResult{value: value}
}

func (r RawResult) Text() (string, bool) {
	if r.text == nil {
		return "", false
	}
	return *r.text, true
}

func (r RawResult) Value() json.RawMessage { return r.value }
