package export_test

import (
	"bytes"
	"encoding/csv"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/worksheet-gen/internal/export"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

func sampleWorksheet() worksheet.Worksheet {
	return worksheet.Worksheet{
		Title:        "owl reading, week 2!",
		Instructions: "Read carefully.",
		Questions: []worksheet.Question{
			{
				ID: 10, StandardRef: "RI.2", Type: worksheet.MultipleChoice,
				Text:          `What does "nocturnal" mean?`,
				Options:       []string{"Awake at night", "Asleep at night", "Very loud", "Very small", "Extra"},
				CorrectAnswer: "Awake at night",
				VisualInfo:    &worksheet.VisualData{Type: worksheet.VisualTextPassage, PassageTitle: "Owls", PassageContent: "Owls are nocturnal."},
			},
			{ID: 4, StandardRef: "3.OA.A.1", Type: worksheet.OpenEnded, Text: "What is 3 x 4?", CorrectAnswer: "12"},
		},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := export.CSV(&buf, sampleWorksheet()); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2", len(records))
	}
	if !slices.Equal(records[0], export.Header) {
		t.Errorf("header = %v", records[0])
	}

	want := []string{"1", `[Passage: Owls] What does "nocturnal" mean?`, "Awake at night", "Asleep at night", "Very loud", "Very small", "Awake at night"}
	if !slices.Equal(records[1], want) {
		t.Errorf("row 1 = %q\nwant    %q", records[1], want)
	}
	want = []string{"2", "What is 3 x 4?", "", "", "", "", "12"}
	if !slices.Equal(records[2], want) {
		t.Errorf("row 2 = %q\nwant    %q", records[2], want)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		ext   string
		want  string
	}{
		{"owl reading, week 2!", "csv", "owl_reading__week_2_.csv"},
		{"Fractions", "xlsx", "fractions.xlsx"},
		{"   ", "csv", "worksheet.csv"},
	}
	for _, tt := range tests {
		if got := export.Filename(worksheet.Worksheet{Title: tt.title}, tt.ext); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := export.XLSX(&buf, sampleWorksheet()); err != nil {
		t.Fatalf("XLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !slices.Equal(got, []string{export.SheetQuestions, export.SheetAnswerKey}) {
		t.Errorf("sheets = %v", got)
	}

	rows, err := f.GetRows(export.SheetQuestions)
	if err != nil {
		t.Fatalf("GetRows(questions) error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("questions rows = %d, want 3", len(rows))
	}
	if rows[1][1] != `[Passage: Owls] What does "nocturnal" mean?` {
		t.Errorf("question text = %q", rows[1][1])
	}

	key, err := f.GetRows(export.SheetAnswerKey)
	if err != nil {
		t.Fatalf("GetRows(answer key) error = %v", err)
	}
	if len(key) != 3 || key[2][1] != "3.OA.A.1" || key[2][3] != "12" {
		t.Errorf("answer key = %q", key)
	}

	props, err := f.GetDocProps()
	if err != nil {
		t.Fatalf("GetDocProps() error = %v", err)
	}
	if props.Title != "Owl Reading, Week 2!" {
		t.Errorf("doc title = %q, want title case", props.Title)
	}
}
