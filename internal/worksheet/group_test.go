package worksheet_test

import (
	"math/rand/v2"
	"testing"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

func passageQ(id int, content string) worksheet.Question {
	return worksheet.Question{
		ID:          id,
		StandardRef: "3.R.RI.01",
		Text:        "Question",
		Type:        worksheet.OpenEnded,
		VisualInfo: &worksheet.VisualData{
			Type:           worksheet.VisualTextPassage,
			PassageTitle:   "Title",
			PassageContent: content,
		},
	}
}

func plainQ(id int) worksheet.Question {
	return worksheet.Question{ID: id, StandardRef: "3.OA.C.7", Text: "6 x 7 = ?", Type: worksheet.OpenEnded, CorrectAnswer: "42"}
}

func TestPassageKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The fox ran.  ", "The fox ran."},
		{"  The\tfox\n\nran.", "The fox ran."},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := worksheet.PassageKey(tt.in); got != tt.want {
			t.Errorf("PassageKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePassages_TrailingWhitespace(t *testing.T) {
	qs := []worksheet.Question{passageQ(1, "The fox ran.  "), passageQ(2, "The fox ran.")}

	got := worksheet.NormalizePassages(qs)
	if got[0].Passage() != got[1].Passage() {
		t.Fatalf("passages differ after normalization: %q vs %q", got[0].Passage(), got[1].Passage())
	}
	if got[1].Passage() != "The fox ran.  " {
		t.Errorf("passage = %q, want the first-seen form", got[1].Passage())
	}
	if qs[1].Passage() != "The fox ran." {
		t.Error("NormalizePassages mutated its input")
	}

	groups := worksheet.Groups(got)
	if len(groups) != 1 || len(groups[0]) != 2 {
		t.Fatalf("groups = %d (first size %d), want one group of 2", len(groups), len(groups[0]))
	}
}

func TestNormalizePassages_Idempotent(t *testing.T) {
	qs := []worksheet.Question{
		passageQ(1, "A  b"),
		passageQ(2, "A b "),
		plainQ(3),
		passageQ(4, "Other"),
		passageQ(5, " A b"),
	}
	once := worksheet.NormalizePassages(qs)
	twice := worksheet.NormalizePassages(once)
	for i := range once {
		if once[i].Passage() != twice[i].Passage() {
			t.Errorf("index %d: %q then %q", i, once[i].Passage(), twice[i].Passage())
		}
	}
}

func TestGroups_Adjacency(t *testing.T) {
	qs := []worksheet.Question{
		passageQ(1, "P"),
		passageQ(2, "P"),
		plainQ(3),
		passageQ(4, "Q"),
		passageQ(5, "P"),
		plainQ(6),
		plainQ(7),
	}

	groups := worksheet.Groups(qs)
	wantSizes := []int{2, 1, 1, 1, 1, 1}
	if len(groups) != len(wantSizes) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(wantSizes))
	}
	for i, g := range groups {
		if len(g) != wantSizes[i] {
			t.Errorf("group %d size = %d, want %d", i, len(g), wantSizes[i])
		}
		for _, q := range g[1:] {
			if q.Passage() != g[0].Passage() || q.Passage() == "" {
				t.Errorf("group %d mixes passages", i)
			}
		}
	}
}

func TestNormalizeAndGroup_KeepsGroupsContiguous(t *testing.T) {
	qs := []worksheet.Question{
		passageQ(1, "Ants build."),
		passageQ(2, "Ants  build."),
		passageQ(3, "Ants build. "),
		plainQ(4),
		passageQ(5, "Owls hunt."),
		passageQ(6, "Owls hunt."),
		plainQ(7),
	}

	for seed := uint64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed+1))
		out := worksheet.NormalizeAndGroup(qs, rng)
		if len(out) != len(qs) {
			t.Fatalf("seed %d: len = %d, want %d", seed, len(out), len(qs))
		}

		seen := map[string]bool{}
		prev := ""
		for _, q := range out {
			p := q.Passage()
			if p != "" && p != prev && seen[p] {
				t.Fatalf("seed %d: passage %q split across positions", seed, p)
			}
			if p != "" {
				seen[p] = true
			}
			prev = p
		}
		if len(seen) != 2 {
			t.Errorf("seed %d: %d distinct passages, want 2", seed, len(seen))
		}
	}
}

func TestNormalizeAndGroup_SeparatesRepeatedPassage(t *testing.T) {
	tests := []struct {
		name string
		qs   []worksheet.Question
	}{
		{
			name: "one question between",
			qs:   []worksheet.Question{passageQ(1, "Ants build."), plainQ(2), passageQ(3, "Ants build.")},
		},
		{
			name: "near duplicate passages",
			qs: []worksheet.Question{
				passageQ(1, "Ants build."),
				passageQ(2, "Ants build."),
				plainQ(3),
				passageQ(4, " Ants  build."),
				plainQ(5),
				passageQ(6, "Ants build.\n"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := len(worksheet.Groups(worksheet.NormalizePassages(tt.qs)))
			for seed := uint64(0); seed < 100; seed++ {
				out := worksheet.NormalizeAndGroup(tt.qs, rand.New(rand.NewPCG(seed, seed)))
				if len(out) != len(tt.qs) {
					t.Fatalf("seed %d: len = %d, want %d", seed, len(out), len(tt.qs))
				}
				if got := len(worksheet.Groups(out)); got != want {
					t.Errorf("seed %d: %d groups after shuffle, want %d", seed, got, want)
				}
			}
		})
	}
}
