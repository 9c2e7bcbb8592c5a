package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Int returns a uniform integer in [lo, hi].
func (g *Generator) Int(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

// chance reports true with probability p.
func (g *Generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

// Pick returns a uniform element of seq.
func Pick[T any](g *Generator, seq []T) (T, error) {
	if len(seq) == 0 {
		var zero T
		return zero, &EmptyInputError{What: fmt.Sprintf("%T", seq)}
	}
	return seq[g.rng.IntN(len(seq))], nil
}

// oneOf picks from a literal list; the signature guarantees it is non-empty.
func oneOf[T any](g *Generator, first T, rest ...T) T {
	i := g.rng.IntN(len(rest) + 1)
	if i == 0 {
		return first
	}
	return rest[i-1]
}

func shuffle[T any](g *Generator, s []T) {
	g.rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// UniqueOptions drops exact duplicates from candidates, keeping first
// occurrences, and returns them in random order. Callers must supply at least
// two distinct candidates.
func (g *Generator) UniqueOptions(candidates ...string) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	shuffle(g, out)
	return out
}

// DistractorKind selects how Distractors perturbs the correct answer.
type DistractorKind int

const (
	NumberDistractors DistractorKind = iota
	TimeDistractors
)

const distractorAttempts = 20

var (
	numberToken  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	plainNumber  = regexp.MustCompile(`^\$?\d+(?:\.\d+)?(?: [a-zA-Z][a-zA-Z ]*)?$`)
)

// Distractors returns up to four shuffled options: correct plus perturbations.
// Numbers move the first numeric token by 1 to 5 in either direction, never
// below zero, keeping any prefix or unit. Times move by 15, 30 or 45 minutes on
// a 12 hour clock. Fewer than four options come back when attempts run out.
func (g *Generator) Distractors(correct string, kind DistractorKind) []string {
	set := []string{correct}
	seen := map[string]bool{correct: true}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			set = append(set, s)
		}
	}

	for attempt := 0; attempt < distractorAttempts && len(set) < 4; attempt++ {
		switch kind {
		case NumberDistractors:
			loc := numberToken.FindStringIndex(correct)
			if loc == nil {
				attempt = distractorAttempts
				continue
			}
			tok := correct[loc[0]:loc[1]]
			val, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				attempt = distractorAttempts
				continue
			}
			off := g.Int(-5, 5)
			if off == 0 || val+float64(off) < 0 {
				continue
			}
			decimals := 0
			if i := strings.IndexByte(tok, '.'); i >= 0 {
				decimals = len(tok) - i - 1
			}
			add(correct[:loc[0]] + strconv.FormatFloat(val+float64(off), 'f', decimals, 64) + correct[loc[1]:])
		case TimeDistractors:
			h, m, ok := parseClock(correct)
			if !ok {
				attempt = distractorAttempts
				continue
			}
			off := oneOf(g, -45, -30, -15, 15, 30, 45)
			add(formatClock(h*60 + m + off))
		}
	}

	shuffle(g, set)
	return set
}

// distractorKindFor reports which perturbation suits answer, if any.
func distractorKindFor(answer string) (DistractorKind, bool) {
	if _, _, ok := parseClock(answer); ok {
		return TimeDistractors, true
	}
	if plainNumber.MatchString(answer) {
		return NumberDistractors, true
	}
	return 0, false
}

func parseClock(s string) (h, m int, ok bool) {
	sub := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if sub == nil {
		return 0, 0, false
	}
	h, _ = strconv.Atoi(sub[1])
	m, _ = strconv.Atoi(sub[2])
	if h < 1 || h > 12 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// formatClock renders minutes past midnight as h:mm on a 12 hour clock.
func formatClock(minutes int) string {
	minutes = ((minutes % 720) + 720) % 720
	h := minutes / 60
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d", h, minutes%60)
}

func itoa(n int) string { return strconv.Itoa(n) }

// repeatJoin renders n copies of v joined by sep, e.g. "4 + 4 + 4".
func repeatJoin(v, n int, sep string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = itoa(v)
	}
	return strings.Join(parts, sep)
}
