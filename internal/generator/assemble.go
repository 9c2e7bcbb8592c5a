package generator

import (
	"fmt"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

// QuestionMode forces the answer format of every question on a worksheet.
type QuestionMode string

const (
	ModeMixed          QuestionMode = "mixed"
	ModeMultipleChoice QuestionMode = "multiple-choice"
	ModeOpenEnded      QuestionMode = "open-ended"
)

// ParseMode maps a client mode string to a QuestionMode. Empty means mixed.
func ParseMode(s string) (QuestionMode, error) {
	switch m := QuestionMode(s); m {
	case "":
		return ModeMixed, nil
	case ModeMixed, ModeMultipleChoice, ModeOpenEnded:
		return m, nil
	}
	return "", fmt.Errorf("unknown question mode %q", s)
}

// StandardCount asks for Count questions of one standard.
type StandardCount struct {
	Standard string `json:"standard"`
	Count    int    `json:"count"`
}

// AssembleRequest describes a whole generated worksheet.
type AssembleRequest struct {
	Title         string
	Instructions  string
	Standards     []StandardCount
	Mode          QuestionMode
	Names         []string
	Subcategories map[string][]string
}

// Assemble generates a worksheet with the requested counts in request order.
// Within one worksheet it redraws a question up to the uniqueness limit when
// its fingerprint was already used, keeping the last draw if every attempt
// collides.
func (g *Generator) Assemble(req AssembleRequest) (worksheet.Worksheet, error) {
	total := 0
	for _, sc := range req.Standards {
		if sc.Count < 0 {
			return worksheet.Worksheet{}, fmt.Errorf("standard %s: negative count %d", sc.Standard, sc.Count)
		}
		if !Supports(sc.Standard) {
			return worksheet.Worksheet{}, &UnknownStandardError{Standard: sc.Standard}
		}
		total += sc.Count
	}
	if total == 0 {
		return worksheet.Worksheet{}, &EmptyInputError{What: "standard counts"}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[string]bool, total)
	questions := make([]worksheet.Question, 0, total)
	for _, sc := range req.Standards {
		for range sc.Count {
			id := len(questions) + 1
			r := Request{ID: id, Standard: sc.Standard, Names: req.Names, Subcategories: req.Subcategories[sc.Standard]}

			var q worksheet.Question
			for attempt := 0; attempt < g.uniqueness; attempt++ {
				var err error
				q, err = g.generate(r)
				if err != nil {
					return worksheet.Worksheet{}, fmt.Errorf("question %d: %w", id, err)
				}
				if fp := worksheet.Fingerprint(q); !seen[fp] {
					seen[fp] = true
					break
				}
			}
			questions = append(questions, g.applyMode(q, req.Mode))
		}
	}

	return worksheet.Worksheet{
		Title:        req.Title,
		Instructions: req.Instructions,
		Questions:    questions,
	}, nil
}

// ApplyMode converts q to the requested answer format.
func (g *Generator) ApplyMode(q worksheet.Question, mode QuestionMode) worksheet.Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.applyMode(q, mode)
}

func (g *Generator) applyMode(q worksheet.Question, mode QuestionMode) worksheet.Question {
	switch mode {
	case ModeOpenEnded:
		q.Type = worksheet.OpenEnded
		q.Options = nil
	case ModeMultipleChoice:
		if q.Type == worksheet.MultipleChoice {
			return q
		}
		mcq := q
		mcq.Type = worksheet.MultipleChoice
		if len(mcq.Options) >= 2 && worksheet.CheckOptions(mcq) == nil {
			return mcq
		}
		kind, ok := distractorKindFor(q.CorrectAnswer)
		if !ok {
			return q
		}
		mcq.Options = g.Distractors(q.CorrectAnswer, kind)
		if len(mcq.Options) < 2 {
			return q
		}
		return mcq
	}
	return q
}
