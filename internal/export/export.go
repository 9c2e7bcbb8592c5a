// Package export writes worksheets as CSV and XLSX files for import into
// quiz tools and spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

// Header is the CSV column layout. Questions with more than four options keep
// only the first four.
var Header = []string{"Question #", "Question Text", "Answer 1", "Answer 2", "Answer 3", "Answer 4", "Correct Answer"}

const maxAnswers = 4

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]`)

// Filename returns a download name for w with the given extension: the title
// lowercased with every other character replaced by an underscore.
func Filename(w worksheet.Worksheet, ext string) string {
	base := strings.TrimSpace(w.Title)
	if base == "" {
		base = "worksheet"
	}
	return unsafeFilename.ReplaceAllString(strings.ToLower(base), "_") + "." + ext
}

// QuestionText is the question as printed in exports: questions on a passage
// are prefixed with the passage title.
func QuestionText(q worksheet.Question) string {
	if q.Passage() != "" {
		return fmt.Sprintf("[Passage: %s] %s", q.VisualInfo.PassageTitle, q.Text)
	}
	return q.Text
}

// Row returns the export columns for the question at position i.
func Row(i int, q worksheet.Question) []string {
	row := make([]string, 0, len(Header))
	row = append(row, strconv.Itoa(i+1), QuestionText(q))
	for k := range maxAnswers {
		opt := ""
		if k < len(q.Options) {
			opt = q.Options[k]
		}
		row = append(row, opt)
	}
	return append(row, q.CorrectAnswer)
}

// CSV writes w in the quiz import layout. Question numbers follow worksheet
// order, not question IDs.
func CSV(out io.Writer, w worksheet.Worksheet) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, q := range w.Questions {
		if err := cw.Write(Row(i, q)); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
