package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

// Sheet names in the XLSX export.
const (
	SheetQuestions = "Questions"
	SheetAnswerKey = "Answer Key"
)

var answerKeyHeader = []string{"Question #", "Standard", "Type", "Correct Answer"}

// XLSX writes w as a workbook with a questions sheet in the CSV layout and a
// separate answer key.
func XLSX(out io.Writer, w worksheet.Worksheet) error {
	f := excelize.NewFile()
	defer f.Close()

	title := cases.Title(language.English).String(w.Title)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       title,
		Description: w.Instructions,
		Creator:     "worksheet-gen",
	}); err != nil {
		return fmt.Errorf("setting workbook properties: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetQuestions); err != nil {
		return fmt.Errorf("naming questions sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetAnswerKey); err != nil {
		return fmt.Errorf("adding answer key sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0EBF5"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("creating body style: %w", err)
	}

	rows := make([][]string, len(w.Questions))
	key := make([][]string, len(w.Questions))
	for i, q := range w.Questions {
		rows[i] = Row(i, q)
		key[i] = []string{strconv.Itoa(i + 1), q.StandardRef, string(q.Type), q.CorrectAnswer}
	}

	if err := writeSheet(f, SheetQuestions, Header, rows, bold); err != nil {
		return err
	}
	if err := writeSheet(f, SheetAnswerKey, answerKeyHeader, key, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetQuestions, "B", "B", 70); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetQuestions, "C", "G", 18); err != nil {
		return err
	}
	if n := len(w.Questions); n > 0 {
		last, _ := excelize.CoordinatesToCellName(len(Header), n+1)
		if err := f.SetCellStyle(SheetQuestions, "A2", last, wrap); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetAnswerKey, "B", "D", 22); err != nil {
		return err
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	end, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
