package worksheet_test

import (
	"errors"
	"testing"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

func sample() worksheet.Worksheet {
	return worksheet.Worksheet{
		Title: "Mixed",
		Questions: []worksheet.Question{
			plainQ(1),
			passageQ(2, "Bats sleep by day."),
			passageQ(3, "Bats sleep by day."),
			passageQ(4, "Bats sleep by day."),
			plainQ(5),
		},
	}
}

func TestDeletePassageGroup_Cascade(t *testing.T) {
	for _, target := range []int{1, 2, 3} {
		w := sample()
		n, err := w.DeletePassageGroup(target)
		if err != nil {
			t.Fatalf("DeletePassageGroup(%d) error = %v", target, err)
		}
		if n != 3 {
			t.Errorf("removed = %d, want 3", n)
		}
		if len(w.Questions) != 2 {
			t.Fatalf("len = %d, want 2", len(w.Questions))
		}
		for _, q := range w.Questions {
			if q.Passage() != "" {
				t.Errorf("question %d still has the passage", q.ID)
			}
		}
	}
}

func TestDeletePassageGroup_NoPassageDeletesOne(t *testing.T) {
	w := sample()
	n, err := w.DeletePassageGroup(0)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if n != 1 || len(w.Questions) != 4 || w.Questions[0].ID != 2 {
		t.Errorf("removed %d, remaining %d, first id %d", n, len(w.Questions), w.Questions[0].ID)
	}
}

func TestDeleteQuestion(t *testing.T) {
	w := sample()
	if err := w.DeleteQuestion(2); err != nil {
		t.Fatalf("error = %v", err)
	}
	ids := []int{}
	for _, q := range w.Questions {
		ids = append(ids, q.ID)
	}
	want := []int{1, 2, 4, 5}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}

	var ie *worksheet.IndexError
	if err := w.DeleteQuestion(10); !errors.As(err, &ie) {
		t.Errorf("DeleteQuestion(10) error = %v, want IndexError", err)
	}
}

func TestReplaceQuestion_KeepsPassage(t *testing.T) {
	w := sample()
	w.Questions[2].VisualInfo.ImageURL = "data:image/png;base64,AAA"
	w.Questions[2].ExtraSpace = 40

	fresh := worksheet.Question{
		ID:          99,
		StandardRef: "3.R.RI.01",
		Text:        "New question",
		Type:        worksheet.OpenEnded,
		VisualInfo:  &worksheet.VisualData{Type: worksheet.VisualTextPassage, PassageContent: "something else"},
	}
	if err := w.ReplaceQuestion(2, fresh); err != nil {
		t.Fatalf("error = %v", err)
	}

	got := w.Questions[2]
	if got.ID != 3 {
		t.Errorf("ID = %d, want 3", got.ID)
	}
	if got.ExtraSpace != 40 {
		t.Errorf("ExtraSpace = %d, want 40", got.ExtraSpace)
	}
	if got.Passage() != "Bats sleep by day." || got.VisualInfo.PassageTitle != "Title" {
		t.Errorf("passage not preserved: %+v", got.VisualInfo)
	}
	if got.VisualInfo.ImageURL != "data:image/png;base64,AAA" {
		t.Errorf("ImageURL = %q", got.VisualInfo.ImageURL)
	}
	if got.Text != "New question" {
		t.Errorf("Text = %q", got.Text)
	}
	if fresh.VisualInfo.PassageContent != "something else" {
		t.Error("ReplaceQuestion mutated its argument")
	}

	idx, _ := w.PassageGroup(1)
	if len(idx) != 3 {
		t.Errorf("group size after replace = %d, want 3", len(idx))
	}
}

func TestReplaceQuestion_NilVisualGetsPassage(t *testing.T) {
	w := sample()
	if err := w.ReplaceQuestion(1, plainQ(50)); err != nil {
		t.Fatalf("error = %v", err)
	}
	if w.Questions[1].Passage() != "Bats sleep by day." {
		t.Errorf("passage = %q", w.Questions[1].Passage())
	}
	if w.Questions[1].VisualInfo.Type != worksheet.VisualTextPassage {
		t.Errorf("type = %q", w.Questions[1].VisualInfo.Type)
	}
}

func TestRegenerationTarget_Custom(t *testing.T) {
	w := sample()
	w.AddCustom(worksheet.Question{Text: "Draw a square."})
	if _, err := w.RegenerationTarget(len(w.Questions) - 1); !errors.Is(err, worksheet.ErrNotRegenerable) {
		t.Errorf("error = %v, want ErrNotRegenerable", err)
	}
	if _, err := w.RegenerationTarget(0); err != nil {
		t.Errorf("error = %v, want nil", err)
	}
}

func TestReplaceGroup(t *testing.T) {
	w := sample()
	w.Questions[3].ExtraSpace = 25

	fresh := []worksheet.Question{passageQ(1, "Frogs leap."), passageQ(1, "Frogs leap."), passageQ(1, "Frogs leap.")}
	if err := w.ReplaceGroup(2, fresh); err != nil {
		t.Fatalf("error = %v", err)
	}
	ids := map[int]bool{}
	for i, q := range w.Questions {
		if ids[q.ID] {
			t.Errorf("duplicate id %d", q.ID)
		}
		ids[q.ID] = true
		if i >= 1 && i <= 3 && q.Passage() != "Frogs leap." {
			t.Errorf("index %d passage = %q", i, q.Passage())
		}
	}
	if w.Questions[0].ID != 1 || w.Questions[4].ID != 5 {
		t.Error("questions outside the group changed")
	}
	if w.Questions[3].ExtraSpace != 25 {
		t.Errorf("ExtraSpace = %d, want 25", w.Questions[3].ExtraSpace)
	}

	var gse *worksheet.GroupSizeError
	if err := w.ReplaceGroup(1, fresh[:2]); !errors.As(err, &gse) {
		t.Errorf("error = %v, want GroupSizeError", err)
	}
}

func TestUpdateIllustration(t *testing.T) {
	t.Run("group", func(t *testing.T) {
		w := sample()
		if err := w.UpdateIllustration(3, "https://img/1.png"); err != nil {
			t.Fatalf("error = %v", err)
		}
		for i := 1; i <= 3; i++ {
			if w.Questions[i].VisualInfo.ImageURL != "https://img/1.png" {
				t.Errorf("index %d not updated", i)
			}
		}
		if w.Questions[0].VisualInfo != nil {
			t.Error("standalone question touched")
		}
	})

	t.Run("standalone gets custom-image", func(t *testing.T) {
		w := sample()
		if err := w.UpdateIllustration(0, "https://img/2.png"); err != nil {
			t.Fatalf("error = %v", err)
		}
		v := w.Questions[0].VisualInfo
		if v == nil || v.Type != worksheet.VisualCustomImage || v.ImageURL != "https://img/2.png" {
			t.Errorf("visual = %+v", v)
		}
	})

	t.Run("standalone keeps existing type", func(t *testing.T) {
		w := sample()
		w.Questions[4].VisualInfo = &worksheet.VisualData{Type: worksheet.VisualClock, Time: "3:15"}
		if err := w.UpdateIllustration(4, "u"); err != nil {
			t.Fatalf("error = %v", err)
		}
		if w.Questions[4].VisualInfo.Type != worksheet.VisualClock {
			t.Errorf("type = %q, want clock", w.Questions[4].VisualInfo.Type)
		}
	})
}

func TestUpdatePassage_GroupWide(t *testing.T) {
	w := sample()
	if err := w.UpdatePassage(1, "Night", "Bats sleep by day and fly at night."); err != nil {
		t.Fatalf("error = %v", err)
	}
	idx, _ := w.PassageGroup(1)
	if len(idx) != 3 {
		t.Fatalf("group size = %d, want 3", len(idx))
	}
	for _, i := range idx {
		if w.Questions[i].VisualInfo.PassageTitle != "Night" {
			t.Errorf("index %d title = %q", i, w.Questions[i].VisualInfo.PassageTitle)
		}
	}
}

func TestAppendAndCustomIDs(t *testing.T) {
	w := sample()
	w.Append([]worksheet.Question{plainQ(1), plainQ(1)})
	if w.Questions[5].ID != 6 || w.Questions[6].ID != 7 {
		t.Errorf("appended ids = %d,%d want 6,7", w.Questions[5].ID, w.Questions[6].ID)
	}
	c := w.AddCustom(worksheet.Question{Text: "Explain.", Options: []string{"a", "b"}})
	if c.ID != 8 || c.StandardRef != worksheet.CustomStandard || c.Type != worksheet.MultipleChoice {
		t.Errorf("custom = %+v", c)
	}
}

func TestSetSpacing(t *testing.T) {
	w := sample()
	if err := w.SetSpacing(0, -5); err != nil {
		t.Fatalf("error = %v", err)
	}
	if w.Questions[0].ExtraSpace != 0 {
		t.Errorf("ExtraSpace = %d, want 0", w.Questions[0].ExtraSpace)
	}
	if err := w.SetSpacing(0, 60); err != nil {
		t.Fatalf("error = %v", err)
	}
	if w.Questions[0].ExtraSpace != 60 {
		t.Errorf("ExtraSpace = %d, want 60", w.Questions[0].ExtraSpace)
	}
}

func TestCheckOptions(t *testing.T) {
	tests := []struct {
		name    string
		q       worksheet.Question
		wantErr bool
	}{
		{"open ended", worksheet.Question{Type: worksheet.OpenEnded}, false},
		{"valid", worksheet.Question{Type: worksheet.MultipleChoice, Options: []string{"1", "2", "3"}, CorrectAnswer: "2"}, false},
		{"trimmed", worksheet.Question{Type: worksheet.MultipleChoice, Options: []string{"1 ", "2"}, CorrectAnswer: " 1"}, false},
		{"missing", worksheet.Question{Type: worksheet.MultipleChoice, Options: []string{"1", "2"}, CorrectAnswer: "3"}, true},
		{"duplicate", worksheet.Question{Type: worksheet.MultipleChoice, Options: []string{"1", "1", "2"}, CorrectAnswer: "2"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := worksheet.CheckOptions(tt.q); (err != nil) != tt.wantErr {
				t.Errorf("CheckOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
