package generator

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

func TestSelectVariant(t *testing.T) {
	mapping := VariantMap{
		"Nearest 10":  {0, 2},
		"Nearest 100": {1, 2},
	}
	all := variants(0, 7)

	tests := []struct {
		name     string
		selected []string
		allowed  []int
	}{
		{"nothing selected", nil, all},
		{"one label", []string{"Nearest 10"}, []int{0, 2}},
		{"union", []string{"Nearest 10", "Nearest 100"}, []int{0, 1, 2}},
		{"unmapped falls back", []string{"Word Problems"}, all},
		{"mapped and unmapped", []string{"Word Problems", "Nearest 100"}, []int{1, 2}},
	}
	g := New(Options{Seed: 1})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 200 {
				v, err := g.SelectVariant(all, tt.selected, mapping)
				if err != nil {
					t.Fatalf("SelectVariant() error = %v", err)
				}
				if !slices.Contains(tt.allowed, v) {
					t.Fatalf("SelectVariant() = %d, want one of %v", v, tt.allowed)
				}
			}
		})
	}

	_, err := g.SelectVariant(nil, nil, mapping)
	var empty *EmptyInputError
	if !errors.As(err, &empty) {
		t.Errorf("empty all: error = %v, want EmptyInputError", err)
	}
}

func TestUniqueOptions(t *testing.T) {
	g := New(Options{Seed: 2})
	got := g.UniqueOptions("4", "5", "4", "6", "5")
	slices.Sort(got)
	if want := []string{"4", "5", "6"}; !slices.Equal(got, want) {
		t.Errorf("UniqueOptions() = %v, want %v", got, want)
	}
}

func TestDistractors(t *testing.T) {
	g := New(Options{Seed: 3})
	tests := []struct {
		correct string
		kind    DistractorKind
		check   func(string) bool
	}{
		{"42", NumberDistractors, func(s string) bool { _, err := strconv.Atoi(s); return err == nil }},
		{"$3.50", NumberDistractors, func(s string) bool { return strings.HasPrefix(s, "$") && strings.Contains(s, ".") }},
		{"24 sq ft", NumberDistractors, func(s string) bool { return strings.HasSuffix(s, " sq ft") }},
		{"2", NumberDistractors, func(s string) bool { return !strings.HasPrefix(s, "-") }},
		{"12:30", TimeDistractors, func(s string) bool { _, _, ok := parseClock(s); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.correct, func(t *testing.T) {
			for range 50 {
				opts := g.Distractors(tt.correct, tt.kind)
				if len(opts) < 2 || len(opts) > 4 {
					t.Fatalf("Distractors() = %v", opts)
				}
				if !slices.Contains(opts, tt.correct) {
					t.Fatalf("Distractors() = %v, missing %q", opts, tt.correct)
				}
				q := worksheet.Question{Type: worksheet.MultipleChoice, CorrectAnswer: tt.correct, Options: opts}
				if err := worksheet.CheckOptions(q); err != nil {
					t.Fatal(err)
				}
				for _, o := range opts {
					if !tt.check(o) {
						t.Errorf("option %q has the wrong shape", o)
					}
				}
			}
		})
	}

	if got := g.Distractors("none", NumberDistractors); !slices.Equal(got, []string{"none"}) {
		t.Errorf("Distractors(non-numeric) = %v", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "12:00"},
		{45, "12:45"},
		{9*60 + 5, "9:05"},
		{13*60 + 15, "1:15"},
		{-15, "11:45"},
		{12*60 + 30 + 45, "1:15"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.minutes); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestDistractorKindFor(t *testing.T) {
	tests := []struct {
		answer string
		kind   DistractorKind
		ok     bool
	}{
		{"7", NumberDistractors, true},
		{"$4.25", NumberDistractors, true},
		{"36 sq units", NumberDistractors, true},
		{"3:15", TimeDistractors, true},
		{"13:15", 0, false},
		{"3/4", 0, false},
		{"Commutative Property", 0, false},
	}
	for _, tt := range tests {
		kind, ok := distractorKindFor(tt.answer)
		if ok != tt.ok || (ok && kind != tt.kind) {
			t.Errorf("distractorKindFor(%q) = %v, %v", tt.answer, kind, ok)
		}
	}
}

func TestCharacterPronouns(t *testing.T) {
	g := New(Options{Seed: 4})
	for range 50 {
		c := g.Character([]string{"Mina"})
		if c.Name != "Mina" {
			t.Fatalf("Name = %q, want pooled name", c.Name)
		}
		switch c.Subjective {
		case "he":
			if c.Objective != "him" || c.PossessiveTitle != "His" {
				t.Errorf("mixed pronouns: %+v", c)
			}
		case "she":
			if c.Objective != "her" || c.PossessiveTitle != "Her" {
				t.Errorf("mixed pronouns: %+v", c)
			}
		default:
			t.Errorf("Subjective = %q", c.Subjective)
		}
	}
}

func TestGenerate_RetryExhausted(t *testing.T) {
	const id = "test.degenerate"
	calls := 0
	registry[id] = func(*Generator, Request) (worksheet.Question, error) {
		calls++
		return worksheet.Question{}, errDegenerate
	}
	t.Cleanup(func() { delete(registry, id) })

	g := New(Options{Seed: 5})
	_, err := g.Generate(Request{Standard: id})

	var exhausted *GenerationRetryExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("Generate() error = %v, want GenerationRetryExhausted", err)
	}
	if exhausted.Attempts != defaultMaxRetries || calls != defaultMaxRetries {
		t.Errorf("attempts = %d, calls = %d, want %d", exhausted.Attempts, calls, defaultMaxRetries)
	}
}
