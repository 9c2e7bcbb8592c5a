package authoring

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

// ValidationError lists every way an AI response broke its schema.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

const visualSchema = `{
	"type": "object",
	"properties": {
		"type": {"type": "string", "enum": ["text-passage", "editing-task", "table", "bar-graph", "custom-image"]},
		"passageTitle": {"type": "string"},
		"passageContent": {"type": "string"},
		"sentenceToEdit": {"type": "string"},
		"tableHeaders": {"type": "array", "items": {"type": "string"}},
		"tableRows": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}},
		"graphTitle": {"type": "string"},
		"xAxisLabel": {"type": "string"},
		"yAxisLabel": {"type": "string"},
		"dataPoints": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {"label": {"type": "string"}, "value": {"type": "number"}},
				"required": ["label", "value"]
			}
		},
		"scale": {"type": "number"},
		"icon": {"type": "string", "enum": ["circle", "rect", "star", "smiley"]}
	},
	"required": ["type"]
}`

const questionSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "number"},
		"standardRef": {"type": "string"},
		"text": {"type": "string", "minLength": 1},
		"type": {"type": "string", "enum": ["multiple-choice", "open-ended"]},
		"options": {"type": "array", "items": {"type": "string"}},
		"correctAnswer": {"type": "string", "minLength": 1},
		"visualInfo": ` + visualSchema + `
	},
	"required": ["text", "type", "correctAnswer"]
}`

// Schemas for the three response shapes the author asks for.
var (
	worksheetSchema = newSchema(`{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"instructions": {"type": "string"},
		"questions": {"type": "array", "minItems": 1, "items": ` + questionSchema + `}
	},
	"required": ["title", "questions"]
}`)
	singleQuestionSchema = newSchema(questionSchema)
	groupSchema          = newSchema(`{
	"type": "object",
	"properties": {
		"questions": {"type": "array", "minItems": 1, "items": ` + questionSchema + `}
	},
	"required": ["questions"]
}`)
)

type schema struct {
	load func() (*gojsonschema.Schema, error)
}

func newSchema(src string) schema {
	return schema{load: sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	})}
}

// validate checks data against s and returns a *ValidationError listing every
// violation.
func (s schema) validate(data []byte) error {
	compiled, err := s.load()
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}
	result, err := compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ValidationError{Errors: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return &ValidationError{Errors: errs}
}

// checkQuestions applies the rules a schema cannot express: every
// multiple-choice question lists its answer exactly once among distinct options.
func checkQuestions(qs []worksheet.Question) error {
	var errs []string
	for i, q := range qs {
		if q.Type == worksheet.MultipleChoice && len(q.Options) < 2 {
			errs = append(errs, fmt.Sprintf("question %d: multiple-choice with %d options", i+1, len(q.Options)))
			continue
		}
		if err := worksheet.CheckOptions(q); err != nil {
			errs = append(errs, fmt.Sprintf("question %d: %v", i+1, err))
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
