package worksheet

import (
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies a question by structure: its text, visual data and
// correct answer. Two questions with the same fingerprint read identically on
// paper even if their IDs or option order differ.
func Fingerprint(q Question) string {
	raw, err := json.Marshal(struct {
		Text          string      `json:"text"`
		VisualInfo    *VisualData `json:"visualInfo"`
		CorrectAnswer string      `json:"correctAnswer"`
	}{q.Text, q.VisualInfo, q.CorrectAnswer})
	if err != nil {
		// VisualData holds only plain values; fall back to the text alone.
		raw = []byte(q.Text + "\x00" + q.CorrectAnswer)
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// CacheKeyVersion is bumped whenever the shape of cached generations changes.
const CacheKeyVersion = "v1.1"

// CacheParams is everything that influences an AI generation request.
type CacheParams struct {
	Standards      []string
	Counts         map[string]int
	Subcategories  map[string][]string
	Names          string
	Topic          string
	PassageLength  string
	PassageTitle   string
	PassageContent string
}

// CacheKey derives a deterministic key from p. Standards and subcategories are
// sorted so selection order does not matter; names and topic are trimmed; an
// existing passage contributes its title and content length only.
func CacheKey(p CacheParams) string {
	standards := slices.Clone(p.Standards)
	slices.Sort(standards)

	type entry struct {
		Standard      string   `json:"s"`
		Count         int      `json:"c"`
		Subcategories []string `json:"sub,omitempty"`
	}
	entries := make([]entry, 0, len(standards))
	for _, s := range standards {
		subs := slices.Clone(p.Subcategories[s])
		slices.Sort(subs)
		entries = append(entries, entry{Standard: s, Count: p.Counts[s], Subcategories: subs})
	}

	payload := struct {
		Entries []entry `json:"e"`
		Names   string  `json:"n"`
		Topic   string  `json:"t"`
		Length  string  `json:"l"`
		Title   string  `json:"pt,omitempty"`
		Content int     `json:"pc,omitempty"`
	}{
		Entries: entries,
		Names:   strings.TrimSpace(p.Names),
		Topic:   strings.TrimSpace(p.Topic),
		Length:  p.PassageLength,
		Title:   p.PassageTitle,
		Content: len(p.PassageContent),
	}
	raw, _ := json.Marshal(payload)
	sum := blake2b.Sum256(raw)
	return "ws_" + CacheKeyVersion + "_" + hex.EncodeToString(sum[:16])
}
