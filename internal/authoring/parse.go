// Package authoring turns AI completions into worksheet questions: it builds
// prompts, retries the provider, recovers JSON from chatty output, validates it
// against a schema and groups passage questions.
package authoring

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ParseError is returned when no JSON object can be recovered from a completion.
type ParseError struct {
	Reason  string
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse AI response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse AI response: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractJSON returns the JSON object held in raw. Code fences are removed
// first; when the rest is not valid JSON, the span from the first '{' to the
// last '}' is tried instead.
func ExtractJSON(raw string) ([]byte, error) {
	clean := stripCodeFences(raw)
	if json.Valid([]byte(clean)) {
		return []byte(clean), nil
	}

	first := strings.IndexByte(clean, '{')
	last := strings.LastIndexByte(clean, '}')
	if first == -1 || last < first {
		return nil, &ParseError{Reason: "no JSON object found", Snippet: snippet(clean)}
	}
	span := []byte(clean[first : last+1])
	if !json.Valid(span) {
		return nil, &ParseError{Reason: "malformed JSON object", Snippet: snippet(clean)}
	}
	slog.Warn("recovered JSON object from surrounding text", "dropped_bytes", len(clean)-len(span))
	return span, nil
}

// DecodeJSON extracts the JSON object from raw and unmarshals it into dst.
func DecodeJSON(raw string, dst any) error {
	data, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &ParseError{Reason: "unexpected JSON shape", Snippet: snippet(string(data)), Err: err}
	}
	return nil
}

// snippet shortens s to at most 120 bytes without splitting a rune.
func snippet(s string) string {
	n := 120
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
