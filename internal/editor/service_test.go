package editor_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/p-n-ai/worksheet-gen/internal/ai"
	"github.com/p-n-ai/worksheet-gen/internal/authoring"
	"github.com/p-n-ai/worksheet-gen/internal/curriculum"
	"github.com/p-n-ai/worksheet-gen/internal/editor"
	"github.com/p-n-ai/worksheet-gen/internal/generator"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

const elaJSON = `{
  "title": "Owl Reading",
  "instructions": "Read the passage.",
  "questions": [
    {"text": "What do owls do at night?", "type": "multiple-choice", "options": ["Hunt", "Sleep", "Swim", "Dig"], "correctAnswer": "Hunt",
     "visualInfo": {"type": "text-passage", "passageTitle": "Owls", "passageContent": "Owls hunt at night."}},
    {"text": "Why can owls see well?", "type": "open-ended", "correctAnswer": "Big eyes",
     "visualInfo": {"type": "text-passage", "passageTitle": "Owls", "passageContent": "Owls hunt at night."}},
    {"text": "Add the missing comma.", "type": "open-ended", "correctAnswer": "Dear Sam,",
     "visualInfo": {"type": "editing-task", "sentenceToEdit": "Dear Sam"}}
  ]
}`

const groupJSON = `{"questions": [
  {"text": "Where do frogs lay eggs?", "type": "open-ended", "correctAnswer": "In ponds",
   "visualInfo": {"type": "text-passage", "passageTitle": "Frogs", "passageContent": "Frogs lay eggs in ponds."}},
  {"text": "What hatches from the eggs?", "type": "open-ended", "correctAnswer": "Tadpoles",
   "visualInfo": {"type": "text-passage", "passageTitle": "Frogs", "passageContent": "Frogs lay eggs in ponds."}}
]}`

const questionJSON = `{"text": "Which word tells when owls hunt?", "type": "multiple-choice",
  "options": ["night", "owls", "hunt", "at"], "correctAnswer": "night"}`

type recorder struct {
	mu   sync.Mutex
	seen []worksheet.Worksheet
}

func (r *recorder) Publish(w worksheet.Worksheet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, w)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

type fixture struct {
	svc      *editor.Service
	store    *worksheet.MemoryStore
	events   *worksheet.MemoryEventLogger
	notifier *recorder
}

func newFixture(p *ai.MockProvider) fixture {
	f := fixture{
		store:    worksheet.NewMemoryStore(),
		events:   worksheet.NewMemoryEventLogger(),
		notifier: &recorder{},
	}
	cfg := editor.Config{
		Store:     f.store,
		Generator: generator.New(generator.Options{Seed: 11}),
		Events:    f.events,
		Notifier:  f.notifier,
	}
	if p != nil {
		cfg.Author = authoring.New(authoring.Config{Completer: p, Images: p, RetryDelay: -1, Seed: 3})
	}
	f.svc = editor.New(cfg)
	return f
}

func mathRequest() editor.CreateRequest {
	return editor.CreateRequest{
		Standards: []generator.StandardCount{
			{Standard: generator.NBTA1, Count: 3},
			{Standard: generator.OAA1, Count: 2},
		},
	}
}

func elaRequest() editor.CreateRequest {
	return editor.CreateRequest{
		Standards: []generator.StandardCount{
			{Standard: "RI.2", Count: 2},
			{Standard: "3.L.2", Count: 1},
		},
	}
}

func passageIndex(t *testing.T, w worksheet.Worksheet) int {
	t.Helper()
	for i, q := range w.Questions {
		if q.Passage() != "" {
			return i
		}
	}
	t.Fatal("worksheet has no passage question")
	return -1
}

func TestCreate_Math(t *testing.T) {
	f := newFixture(nil)

	w, err := f.svc.Create(context.Background(), mathRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if w.ID == "" {
		t.Error("created worksheet has no ID")
	}
	if len(w.Questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(w.Questions))
	}
	for i, q := range w.Questions {
		if q.ID != i+1 {
			t.Errorf("question %d ID = %d, want %d", i, q.ID, i+1)
		}
		want := generator.NBTA1
		if i >= 3 {
			want = generator.OAA1
		}
		if q.StandardRef != want {
			t.Errorf("question %d standard = %s, want %s", i, q.StandardRef, want)
		}
	}
	if w.Title == "" || w.Instructions == "" {
		t.Errorf("defaults not applied: title=%q instructions=%q", w.Title, w.Instructions)
	}

	events := f.events.Events()
	if len(events) != 1 || events[0].EventType != worksheet.EventCreated {
		t.Errorf("events = %+v, want one created event", events)
	}
	if f.notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", f.notifier.count())
	}
}

func TestCreate_Errors(t *testing.T) {
	catalog := mapCatalog{"RI.2": true, "3.L.2": true}

	tests := []struct {
		name  string
		svc   *editor.Service
		req   editor.CreateRequest
		check func(error) bool
	}{
		{
			name:  "ELA without author",
			svc:   newFixture(nil).svc,
			req:   elaRequest(),
			check: func(err error) bool { return errors.Is(err, editor.ErrNoAuthor) },
		},
		{
			name: "no questions",
			svc:  newFixture(nil).svc,
			req:  editor.CreateRequest{Standards: []generator.StandardCount{{Standard: generator.NBTA1, Count: 0}}},
			check: func(err error) bool {
				var e *generator.EmptyInputError
				return errors.As(err, &e)
			},
		},
		{
			name: "negative count",
			svc:  newFixture(nil).svc,
			req:  editor.CreateRequest{Standards: []generator.StandardCount{{Standard: generator.NBTA1, Count: -1}}},
			check: func(err error) bool {
				return err != nil && strings.Contains(err.Error(), "negative")
			},
		},
		{
			name: "unknown standard",
			svc: editor.New(editor.Config{
				Author:  authoring.New(authoring.Config{Completer: ai.NewMockProvider(elaJSON), RetryDelay: -1}),
				Catalog: catalog,
			}),
			req: editor.CreateRequest{Standards: []generator.StandardCount{{Standard: "RX.99", Count: 1}}},
			check: func(err error) bool {
				var e *generator.UnknownStandardError
				return errors.As(err, &e)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Create(context.Background(), tt.req)
			if !tt.check(err) {
				t.Errorf("Create() error = %v", err)
			}
		})
	}
}

func TestCreate_MixedMathAndELA(t *testing.T) {
	f := newFixture(ai.NewMockProvider(elaJSON))

	req := elaRequest()
	req.Standards = append([]generator.StandardCount{{Standard: generator.OAA1, Count: 2}}, req.Standards...)
	w, err := f.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(w.Questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(w.Questions))
	}
	for i := range 2 {
		if w.Questions[i].StandardRef != generator.OAA1 {
			t.Errorf("question %d standard = %s, want math first", i, w.Questions[i].StandardRef)
		}
	}
	if w.Title != "Owl Reading" {
		t.Errorf("Title = %q, want AI title", w.Title)
	}
	if w.MaxID() != 5 {
		t.Errorf("MaxID() = %d, want 5", w.MaxID())
	}
}

func TestAppend_ExtendLastPassage(t *testing.T) {
	p := ai.NewMockProvider(elaJSON)
	f := newFixture(p)
	ctx := context.Background()

	w, err := f.svc.Create(ctx, elaRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	// Move a passage question to the end so it is the one extended.
	pi := passageIndex(t, w)
	last := w.Questions[pi]
	if _, err := f.svc.DeleteQuestion(ctx, w.ID, pi); err != nil {
		t.Fatalf("DeleteQuestion() error = %v", err)
	}
	stored, _ := f.store.Get(ctx, w.ID)
	stored.Questions = append(stored.Questions, last)
	if _, err := f.store.Save(ctx, stored); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.Append(ctx, w.ID, editor.AppendRequest{
		Standards:         []generator.StandardCount{{Standard: "RI.2", Count: 3}},
		ExtendLastPassage: true,
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if len(got.Questions) != 6 {
		t.Fatalf("got %d questions, want 6", len(got.Questions))
	}
	for _, q := range got.Questions[3:] {
		if q.Passage() != last.Passage() {
			t.Errorf("appended question %d passage = %q, want %q", q.ID, q.Passage(), last.Passage())
		}
		if q.ID <= 3 {
			t.Errorf("appended question ID %d collides with existing IDs", q.ID)
		}
	}
	req, _ := p.LastRequest()
	if !strings.Contains(req.Messages[1].Content, "CONTEXTUAL EXTENSION MODE") {
		t.Error("append did not ask the model to extend the passage")
	}
}

func TestRegenerateQuestion_Math(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()

	w, _ := f.svc.Create(ctx, mathRequest())
	w, _ = f.svc.SetSpacing(ctx, w.ID, 1, 4)
	old := w.Questions[1]

	got, err := f.svc.RegenerateQuestion(ctx, w.ID, 1, editor.GenerationOptions{})
	if err != nil {
		t.Fatalf("RegenerateQuestion() error = %v", err)
	}

	q := got.Questions[1]
	if q.ID != old.ID || q.ExtraSpace != 4 || q.StandardRef != old.StandardRef {
		t.Errorf("regenerated question = %+v, want ID %d, spacing 4, standard %s", q, old.ID, old.StandardRef)
	}
	if q.Type != old.Type {
		t.Errorf("Type = %s, want %s kept", q.Type, old.Type)
	}
	if err := worksheet.CheckOptions(q); err != nil {
		t.Error(err)
	}
}

func TestRegenerateQuestion_ELAKeepsPassage(t *testing.T) {
	f := newFixture(ai.NewMockProvider(elaJSON, questionJSON))
	ctx := context.Background()

	w, _ := f.svc.Create(ctx, elaRequest())
	pi := passageIndex(t, w)
	_, _ = f.svc.UpdateIllustration(ctx, w.ID, pi, editor.IllustrationRequest{ImageURL: "https://img.example/owl.png"})

	got, err := f.svc.RegenerateQuestion(ctx, w.ID, pi, editor.GenerationOptions{})
	if err != nil {
		t.Fatalf("RegenerateQuestion() error = %v", err)
	}
	q := got.Questions[pi]
	if q.Text != "Which word tells when owls hunt?" {
		t.Errorf("Text = %q, want regenerated text", q.Text)
	}
	if q.Passage() != "Owls hunt at night." || q.VisualInfo.ImageURL != "https://img.example/owl.png" {
		t.Errorf("visual = %+v, want passage and image kept", q.VisualInfo)
	}
	if len(worksheet.Groups(got.Questions)) != 2 {
		t.Error("regenerated question left its passage group")
	}
}

func TestRegeneratePassage(t *testing.T) {
	f := newFixture(ai.NewMockProvider(elaJSON, groupJSON))
	ctx := context.Background()

	w, _ := f.svc.Create(ctx, elaRequest())
	pi := passageIndex(t, w)
	maxID := w.MaxID()

	got, err := f.svc.RegeneratePassage(ctx, w.ID, pi, editor.GenerationOptions{PassageLength: authoring.LengthShort})
	if err != nil {
		t.Fatalf("RegeneratePassage() error = %v", err)
	}

	if len(got.Questions) != len(w.Questions) {
		t.Fatalf("got %d questions, want %d", len(got.Questions), len(w.Questions))
	}
	frogs := 0
	for _, q := range got.Questions {
		switch q.Passage() {
		case "Owls hunt at night.":
			t.Errorf("old passage survived in question %d", q.ID)
		case "Frogs lay eggs in ponds.":
			frogs++
			if q.ID <= maxID {
				t.Errorf("replacement ID %d not above previous max %d", q.ID, maxID)
			}
		}
	}
	if frogs != 2 {
		t.Errorf("frog questions = %d, want 2", frogs)
	}

	var noPassage int
	for i, q := range got.Questions {
		if q.Passage() == "" {
			noPassage = i
		}
	}
	if _, err := f.svc.RegeneratePassage(ctx, w.ID, noPassage, editor.GenerationOptions{}); !errors.Is(err, editor.ErrNoPassage) {
		t.Errorf("RegeneratePassage(no passage) error = %v, want ErrNoPassage", err)
	}
}

func TestFailedEditLeavesWorksheetUnchanged(t *testing.T) {
	p := ai.NewMockProvider(elaJSON)
	f := newFixture(p)
	ctx := context.Background()

	w, _ := f.svc.Create(ctx, elaRequest())
	p.Err = errors.New("provider down")

	if _, err := f.svc.RegeneratePassage(ctx, w.ID, passageIndex(t, w), editor.GenerationOptions{}); !errors.Is(err, authoring.ErrGenerationFailed) {
		t.Fatalf("RegeneratePassage() error = %v, want ErrGenerationFailed", err)
	}

	after, _ := f.svc.Get(ctx, w.ID)
	for i := range w.Questions {
		if after.Questions[i].Text != w.Questions[i].Text || after.Questions[i].ID != w.Questions[i].ID {
			t.Errorf("question %d changed after failed edit", i)
		}
	}
	if len(f.events.Events()) != 1 {
		t.Errorf("events = %d, want only the create event", len(f.events.Events()))
	}
}

func TestCustomQuestions(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	w, _ := f.svc.Create(ctx, mathRequest())

	got, err := f.svc.AddCustomQuestion(ctx, w.ID, worksheet.Question{
		Text: "What is your favorite number?", CorrectAnswer: "(Teacher Check)",
	})
	if err != nil {
		t.Fatalf("AddCustomQuestion() error = %v", err)
	}
	custom := got.Questions[len(got.Questions)-1]
	if custom.StandardRef != worksheet.CustomStandard || custom.ID != 6 || custom.Type != worksheet.OpenEnded {
		t.Errorf("custom question = %+v", custom)
	}

	idx := len(got.Questions) - 1
	if _, err := f.svc.RegenerateQuestion(ctx, w.ID, idx, editor.GenerationOptions{}); !errors.Is(err, worksheet.ErrNotRegenerable) {
		t.Errorf("RegenerateQuestion(custom) error = %v, want ErrNotRegenerable", err)
	}

	if _, err := f.svc.AddCustomQuestion(ctx, w.ID, worksheet.Question{Text: "  "}); !errors.Is(err, editor.ErrEmptyQuestion) {
		t.Errorf("AddCustomQuestion(empty) error = %v, want ErrEmptyQuestion", err)
	}

	bad := worksheet.Question{Text: "Pick", Options: []string{"1", "2"}, CorrectAnswer: "3"}
	var oe *worksheet.OptionsError
	if _, err := f.svc.AddCustomQuestion(ctx, w.ID, bad); !errors.As(err, &oe) {
		t.Errorf("AddCustomQuestion(bad options) error = %v, want *OptionsError", err)
	}
}

func TestEdits(t *testing.T) {
	f := newFixture(ai.NewMockProvider(elaJSON))
	ctx := context.Background()
	w, _ := f.svc.Create(ctx, elaRequest())
	pi := passageIndex(t, w)

	t.Run("update passage group-wide", func(t *testing.T) {
		got, err := f.svc.UpdatePassage(ctx, w.ID, pi, "Barn Owls", "Barn owls nest in old barns.")
		if err != nil {
			t.Fatalf("UpdatePassage() error = %v", err)
		}
		n := 0
		for _, q := range got.Questions {
			if q.Passage() == "Barn owls nest in old barns." && q.VisualInfo.PassageTitle == "Barn Owls" {
				n++
			}
		}
		if n != 2 {
			t.Errorf("updated passages = %d, want 2", n)
		}
	})

	t.Run("update question keeps ID", func(t *testing.T) {
		edit := worksheet.Question{Text: "Edited", Type: worksheet.OpenEnded, CorrectAnswer: "A"}
		got, err := f.svc.UpdateQuestion(ctx, w.ID, 0, edit)
		if err != nil {
			t.Fatalf("UpdateQuestion() error = %v", err)
		}
		if got.Questions[0].Text != "Edited" || got.Questions[0].ID != w.Questions[0].ID {
			t.Errorf("question = %+v", got.Questions[0])
		}
	})

	t.Run("patch keeps unset fields", func(t *testing.T) {
		text, space := "Patched", 3
		got, err := f.svc.PatchQuestion(ctx, w.ID, 0, editor.QuestionPatch{Text: &text, ExtraSpace: &space})
		if err != nil {
			t.Fatalf("PatchQuestion() error = %v", err)
		}
		q := got.Questions[0]
		if q.Text != "Patched" || q.ExtraSpace != 3 || q.CorrectAnswer != "A" {
			t.Errorf("question = %+v", q)
		}

		blank := "  "
		if _, err := f.svc.PatchQuestion(ctx, w.ID, 0, editor.QuestionPatch{Text: &blank}); !errors.Is(err, editor.ErrEmptyQuestion) {
			t.Errorf("PatchQuestion(blank) error = %v, want ErrEmptyQuestion", err)
		}
	})

	t.Run("illustration from prompt", func(t *testing.T) {
		_, err := f.svc.UpdateIllustration(ctx, w.ID, pi, editor.IllustrationRequest{Prompt: "an owl"})
		if !errors.Is(err, authoring.ErrGenerationFailed) {
			t.Errorf("UpdateIllustration() error = %v, want failure without an image", err)
		}
		if _, err := f.svc.UpdateIllustration(ctx, w.ID, pi, editor.IllustrationRequest{}); !errors.Is(err, editor.ErrNoIllustration) {
			t.Errorf("UpdateIllustration(empty) error = %v, want ErrNoIllustration", err)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		var ie *worksheet.IndexError
		if _, err := f.svc.SetSpacing(ctx, w.ID, 99, 2); !errors.As(err, &ie) {
			t.Errorf("SetSpacing(99) error = %v, want *IndexError", err)
		}
		if _, err := f.svc.DeleteQuestion(ctx, w.ID, -1); !errors.As(err, &ie) {
			t.Errorf("DeleteQuestion(-1) error = %v, want *IndexError", err)
		}
	})

	t.Run("delete passage cascades", func(t *testing.T) {
		before, _ := f.svc.Get(ctx, w.ID)
		got, err := f.svc.DeletePassage(ctx, w.ID, passageIndex(t, before))
		if err != nil {
			t.Fatalf("DeletePassage() error = %v", err)
		}
		if len(got.Questions) != len(before.Questions)-2 {
			t.Errorf("got %d questions, want %d", len(got.Questions), len(before.Questions)-2)
		}
	})

	t.Run("unknown worksheet", func(t *testing.T) {
		if _, err := f.svc.SetSpacing(ctx, "missing", 0, 1); !errors.Is(err, worksheet.ErrNotFound) {
			t.Errorf("SetSpacing(missing) error = %v, want ErrNotFound", err)
		}
	})
}

func TestUpdateIllustration_AIImage(t *testing.T) {
	p := ai.NewMockProvider(elaJSON)
	p.Image = "data:image/png;base64,AAAA"
	f := newFixture(p)
	ctx := context.Background()
	w, _ := f.svc.Create(ctx, mathRequest())

	got, err := f.svc.UpdateIllustration(ctx, w.ID, 0, editor.IllustrationRequest{Prompt: "ten apples in a row"})
	if err != nil {
		t.Fatalf("UpdateIllustration() error = %v", err)
	}
	v := got.Questions[0].VisualInfo
	if v == nil || v.ImageURL != p.Image {
		t.Fatalf("visual = %+v, want drawn image", v)
	}
}

func TestConcurrentEditsAreSerialized(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	w, _ := f.svc.Create(ctx, mathRequest())

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := worksheet.Question{Text: fmt.Sprintf("Custom %d", i), CorrectAnswer: "x"}
			if _, err := f.svc.AddCustomQuestion(ctx, w.ID, q); err != nil {
				t.Errorf("AddCustomQuestion() error = %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := f.svc.Get(ctx, w.ID)
	if len(got.Questions) != 5+n {
		t.Errorf("got %d questions, want %d (lost updates)", len(got.Questions), 5+n)
	}
	seen := make(map[int]bool)
	for _, q := range got.Questions {
		if seen[q.ID] {
			t.Errorf("duplicate question ID %d", q.ID)
		}
		seen[q.ID] = true
	}
}

type mapCatalog map[string]bool

func (c mapCatalog) Get(id string) (curriculum.Standard, bool) {
	return curriculum.Standard{ID: id}, c[id]
}
