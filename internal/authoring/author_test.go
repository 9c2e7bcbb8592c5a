package authoring_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/p-n-ai/worksheet-gen/internal/ai"
	"github.com/p-n-ai/worksheet-gen/internal/authoring"
	"github.com/p-n-ai/worksheet-gen/internal/curriculum"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

const worksheetJSON = `{
  "title": "Night Animals",
  "instructions": "",
  "questions": [
    {"id": 7, "standardRef": "RI.2", "text": "What is the main idea?", "type": "multiple-choice",
     "options": ["Owls hunt at night", "Owls sleep", "Owls swim", "Owls sing"], "correctAnswer": "Owls hunt at night",
     "visualInfo": {"type": "text-passage", "passageTitle": "Owls", "passageContent": "Owls hunt at night."}},
    {"id": 8, "standardRef": "RI.2", "text": "Which detail supports it?", "type": "open-ended",
     "correctAnswer": "They have sharp eyes.",
     "visualInfo": {"type": "text-passage", "passageTitle": "Owls", "passageContent": "Owls hunt at night. "}},
    {"id": 9, "standardRef": "3.L.2", "text": "Fix the comma.", "type": "open-ended", "correctAnswer": "Tucson, Arizona",
     "visualInfo": {"type": "editing-task", "sentenceToEdit": "Tucson Arizona"}}
  ]
}`

func owlRequest() authoring.WorksheetRequest {
	return authoring.WorksheetRequest{
		Standards:     []string{"RI.2", "3.L.2"},
		Counts:        map[string]int{"RI.2": 2, "3.L.2": 1},
		PassageLength: authoring.LengthShort,
	}
}

func newAuthor(p *ai.MockProvider, c authoring.Cache) *authoring.Author {
	return authoring.New(authoring.Config{
		Completer:  p,
		Images:     p,
		Catalog:    fakeCatalog{},
		Cache:      c,
		RetryDelay: -1,
		Seed:       42,
	})
}

type fakeCatalog struct{}

func (fakeCatalog) Get(id string) (curriculum.Standard, bool) {
	if id == "RI.2" {
		return curriculum.Standard{ID: id, PromptNotes: "Focus on the main idea and key details."}, true
	}
	return curriculum.Standard{}, false
}

func TestGenerateWorksheet_GroupsAndRenumbers(t *testing.T) {
	p := ai.NewMockProvider(worksheetJSON)
	a := newAuthor(p, nil)

	got, err := a.GenerateWorksheet(context.Background(), owlRequest())
	if err != nil {
		t.Fatalf("GenerateWorksheet() error = %v", err)
	}

	if len(got.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(got.Questions))
	}
	for i, q := range got.Questions {
		if q.ID != i+1 {
			t.Errorf("question %d ID = %d, want %d", i, q.ID, i+1)
		}
	}
	if got.Instructions != authoring.DefaultInstructions {
		t.Errorf("Instructions = %q, want default", got.Instructions)
	}

	// The near-duplicate passages are normalized and stay adjacent.
	groups := worksheet.Groups(got.Questions)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	for _, g := range groups {
		if len(g) == 2 && g[0].Passage() != g[1].Passage() {
			t.Errorf("grouped passages differ: %q vs %q", g[0].Passage(), g[1].Passage())
		}
	}

	req, ok := p.LastRequest()
	if !ok {
		t.Fatal("provider was not called")
	}
	if !req.JSON || req.Task != ai.TaskWorksheet {
		t.Errorf("request JSON=%v task=%v, want JSON worksheet request", req.JSON, req.Task)
	}
	if !strings.Contains(req.Messages[1].Content, "Focus on the main idea") {
		t.Error("prompt is missing the standard's notes")
	}
}

func TestGenerateWorksheet_LogsTokenUsage(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	p := ai.NewMockProvider(worksheetJSON)
	if _, err := newAuthor(p, nil).GenerateWorksheet(context.Background(), owlRequest()); err != nil {
		t.Fatalf("GenerateWorksheet() error = %v", err)
	}

	want := fmt.Sprintf("tokens=%d", 10+len(worksheetJSON))
	if !strings.Contains(buf.String(), want) {
		t.Errorf("log = %q, want it to contain %q", buf.String(), want)
	}
}

func TestGenerateWorksheet_RetriesUntilValid(t *testing.T) {
	p := ai.NewMockProvider("Sorry, here you go: {oops", worksheetJSON)
	a := authoring.New(authoring.Config{Completer: p, RetryDelay: 20 * time.Millisecond, Seed: 1})

	start := time.Now()
	got, err := a.GenerateWorksheet(context.Background(), owlRequest())
	if err != nil {
		t.Fatalf("GenerateWorksheet() error = %v", err)
	}
	if p.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", p.Calls())
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("retry returned after %v, want at least the retry delay", elapsed)
	}
	if len(got.Questions) != 3 {
		t.Errorf("got %d questions, want 3", len(got.Questions))
	}
}

func TestGenerateWorksheet_Failures(t *testing.T) {
	tests := []struct {
		name     string
		provider *ai.MockProvider
		check    func(t *testing.T, err error)
	}{
		{
			name:     "unparseable",
			provider: ai.NewMockProvider("no json here"),
			check: func(t *testing.T, err error) {
				var pe *authoring.ParseError
				if !errors.As(err, &pe) {
					t.Errorf("error = %v, want *ParseError", err)
				}
			},
		},
		{
			name:     "schema violation",
			provider: ai.NewMockProvider(`{"title": "T", "questions": [{"text": "Q", "type": "essay", "correctAnswer": "A"}]}`),
			check: func(t *testing.T, err error) {
				var ve *authoring.ValidationError
				if !errors.As(err, &ve) || len(ve.Errors) == 0 {
					t.Errorf("error = %v, want *ValidationError with details", err)
				}
			},
		},
		{
			name: "answer missing from options",
			provider: ai.NewMockProvider(`{"title": "T", "questions": [{"text": "Q", "type": "multiple-choice",
				"options": ["a", "b", "c", "d"], "correctAnswer": "e"}]}`),
			check: func(t *testing.T, err error) {
				var ve *authoring.ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("error = %v, want *ValidationError", err)
				}
			},
		},
		{
			name:     "provider down",
			provider: &ai.MockProvider{Err: errors.New("503")},
			check: func(t *testing.T, err error) {
				if !strings.Contains(err.Error(), "503") {
					t.Errorf("error = %v, want provider error wrapped", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAuthor(tt.provider, nil)

			_, err := a.GenerateWorksheet(context.Background(), owlRequest())
			if !errors.Is(err, authoring.ErrGenerationFailed) {
				t.Fatalf("error = %v, want ErrGenerationFailed", err)
			}
			if tt.provider.Calls() != 3 {
				t.Errorf("provider calls = %d, want 3", tt.provider.Calls())
			}
			tt.check(t, err)
		})
	}
}

func TestGenerateWorksheet_CancelDuringDelay(t *testing.T) {
	p := &ai.MockProvider{Err: errors.New("overloaded")}
	a := authoring.New(authoring.Config{Completer: p, RetryDelay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.GenerateWorksheet(ctx, owlRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if p.Calls() != 1 {
		t.Errorf("provider calls = %d, want 1", p.Calls())
	}
}

func TestGenerateWorksheet_Empty(t *testing.T) {
	a := newAuthor(ai.NewMockProvider(worksheetJSON), nil)

	_, err := a.GenerateWorksheet(context.Background(), authoring.WorksheetRequest{Standards: []string{"RI.2"}})
	if !errors.Is(err, authoring.ErrEmptyRequest) {
		t.Errorf("error = %v, want ErrEmptyRequest", err)
	}
}

func TestGenerateWorksheet_CacheHit(t *testing.T) {
	p := ai.NewMockProvider(worksheetJSON)
	a := newAuthor(p, authoring.NewMemoryCache(time.Hour, 0))

	first, err := a.GenerateWorksheet(context.Background(), owlRequest())
	if err != nil {
		t.Fatalf("first GenerateWorksheet() error = %v", err)
	}

	req := owlRequest()
	req.Standards = []string{"3.L.2", "RI.2"} // order does not change the key
	req.Title = "Friday Review"
	second, err := a.GenerateWorksheet(context.Background(), req)
	if err != nil {
		t.Fatalf("second GenerateWorksheet() error = %v", err)
	}

	if p.Calls() != 1 {
		t.Errorf("provider calls = %d, want 1", p.Calls())
	}
	if second.Title != "Friday Review" {
		t.Errorf("Title = %q, want override", second.Title)
	}
	for i := range first.Questions {
		if first.Questions[i].Text != second.Questions[i].Text {
			t.Errorf("cached question %d = %q, want %q", i, second.Questions[i].Text, first.Questions[i].Text)
		}
	}
}

func TestGenerateWorksheet_ExistingPassage(t *testing.T) {
	p := ai.NewMockProvider(worksheetJSON)
	a := newAuthor(p, nil)

	req := owlRequest()
	req.Existing = &authoring.Passage{Title: "Bats", Content: "Bats use echoes to find food."}
	got, err := a.GenerateWorksheet(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateWorksheet() error = %v", err)
	}

	for _, q := range got.Questions {
		if q.VisualInfo == nil || q.VisualInfo.PassageContent != req.Existing.Content || q.VisualInfo.PassageTitle != "Bats" {
			t.Errorf("question %d visual = %+v, want the existing passage", q.ID, q.VisualInfo)
		}
	}
	if len(worksheet.Groups(got.Questions)) != 1 {
		t.Error("extension questions should form one group")
	}
	last, _ := p.LastRequest()
	if !strings.Contains(last.Messages[1].Content, "Bats use echoes") {
		t.Error("prompt is missing the existing passage")
	}
}

func TestGenerateQuestion(t *testing.T) {
	p := ai.NewMockProvider("```json\n" + `{"text": "Which word means happy?", "type": "multiple-choice",
		"options": ["glad", "sad", "mad", "bad"], "correctAnswer": "glad",
		"visualInfo": {"type": "text-passage", "passageTitle": "", "passageContent": ""}}` + "\n```")
	a := newAuthor(p, nil)

	q, err := a.GenerateQuestion(context.Background(), "RI.2", []string{"Main Idea"}, &authoring.Passage{Title: "Owls", Content: "Owls hunt."})
	if err != nil {
		t.Fatalf("GenerateQuestion() error = %v", err)
	}
	if q.StandardRef != "RI.2" {
		t.Errorf("StandardRef = %q, want RI.2", q.StandardRef)
	}
	if q.CorrectAnswer != "glad" {
		t.Errorf("CorrectAnswer = %q, want glad", q.CorrectAnswer)
	}
	last, _ := p.LastRequest()
	if last.Task != ai.TaskQuestion {
		t.Errorf("Task = %v, want question", last.Task)
	}
}

func TestRegenerateGroup(t *testing.T) {
	resp := `{"questions": [
		{"text": "Q1", "type": "open-ended", "correctAnswer": "A1",
		 "visualInfo": {"type": "text-passage", "passageTitle": "Frogs", "passageContent": "Frogs lay eggs in ponds."}},
		{"text": "Q2", "type": "open-ended", "correctAnswer": "A2",
		 "visualInfo": {"type": "text-passage", "passageTitle": "Frog", "passageContent": "Frogs lay eggs in water."}},
		{"text": "Q3", "type": "open-ended", "correctAnswer": "A3"}
	]}`

	t.Run("truncates and unifies passage", func(t *testing.T) {
		a := newAuthor(ai.NewMockProvider(resp), nil)

		qs, err := a.RegenerateGroup(context.Background(), "RI.3", 2, nil, authoring.LengthMedium)
		if err != nil {
			t.Fatalf("RegenerateGroup() error = %v", err)
		}
		if len(qs) != 2 {
			t.Fatalf("got %d questions, want 2", len(qs))
		}
		for _, q := range qs {
			if q.Passage() != "Frogs lay eggs in ponds." || q.VisualInfo.PassageTitle != "Frogs" {
				t.Errorf("question %q passage = %+v, want the first passage", q.Text, q.VisualInfo)
			}
			if q.StandardRef != "RI.3" {
				t.Errorf("StandardRef = %q, want RI.3", q.StandardRef)
			}
		}
	})

	t.Run("too few is retried then fails", func(t *testing.T) {
		p := ai.NewMockProvider(resp)
		a := newAuthor(p, nil)

		_, err := a.RegenerateGroup(context.Background(), "RI.3", 4, nil, authoring.LengthMedium)
		var ve *authoring.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("error = %v, want *ValidationError", err)
		}
		if p.Calls() != 3 {
			t.Errorf("provider calls = %d, want 3", p.Calls())
		}
	})
}

func TestIllustration(t *testing.T) {
	p := &ai.MockProvider{Image: "data:image/png;base64,iVBORw0KGgo="}
	a := newAuthor(p, nil)

	url, err := a.Illustration(context.Background(), "an owl on a branch at night")
	if err != nil {
		t.Fatalf("Illustration() error = %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("url = %q, want a data URL", url)
	}

	empty := newAuthor(&ai.MockProvider{}, nil)
	if _, err := empty.Illustration(context.Background(), "x"); !errors.Is(err, ai.ErrNoImage) {
		t.Errorf("error = %v, want ErrNoImage wrapped", err)
	}
}
