package worksheet

import (
	"math/rand/v2"
	"slices"
	"strings"
)

// PassageKey is the comparison form of a passage: trimmed, with every
// whitespace run collapsed to one space.
func PassageKey(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePassages rewrites every passage to the first exact string seen with
// the same PassageKey, so near-duplicates produced by the AI become byte-identical.
// The input slice is not modified.
func NormalizePassages(qs []Question) []Question {
	canonical := make(map[string]string)
	out := make([]Question, len(qs))
	for i, q := range qs {
		q = q.Clone()
		if p := q.Passage(); p != "" {
			key := PassageKey(p)
			if first, ok := canonical[key]; ok {
				q.VisualInfo.PassageContent = first
			} else {
				canonical[key] = p
			}
		}
		out[i] = q
	}
	return out
}

// Groups splits qs into maximal runs of adjacent questions sharing exactly the
// same non-empty passage. A question without a passage is a group on its own.
// Equal passages that are not adjacent stay in separate groups.
func Groups(qs []Question) [][]Question {
	var groups [][]Question
	var current []Question
	last := ""
	for _, q := range qs {
		p := q.Passage()
		switch {
		case p == "":
			if len(current) > 0 {
				groups = append(groups, current)
			}
			groups = append(groups, []Question{q})
			current, last = nil, ""
		case p == last:
			current = append(current, q)
		default:
			if len(current) > 0 {
				groups = append(groups, current)
			}
			current, last = []Question{q}, p
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// shuffleAttempts bounds the reshuffles NormalizeAndGroup tries before it
// keeps the input order.
const shuffleAttempts = 10

// NormalizeAndGroup normalizes passages, groups adjacent questions that share a
// passage, shuffles the groups with rng and flattens the result. Two groups
// with the same passage never end up next to each other, since that would
// merge them into one group on the page. When no shuffle within
// shuffleAttempts separates them, the groups keep their input order, which
// Groups already guarantees is separated.
func NormalizeAndGroup(qs []Question, rng *rand.Rand) []Question {
	groups := Groups(NormalizePassages(qs))
	order := slices.Clone(groups)
	for range shuffleAttempts {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		if separated(order) {
			return flatten(order, len(qs))
		}
	}
	return flatten(groups, len(qs))
}

// separated reports whether no two neighbouring groups share a passage.
func separated(groups [][]Question) bool {
	for i := 1; i < len(groups); i++ {
		p := groups[i][0].Passage()
		if p != "" && p == groups[i-1][0].Passage() {
			return false
		}
	}
	return true
}

func flatten(groups [][]Question, n int) []Question {
	out := make([]Question, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
