// Package editor applies worksheet edits on top of a Store. Every operation
// loads a copy, changes it and saves it only if the whole change succeeded, so
// a failed AI call never leaves a half-edited worksheet behind.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/p-n-ai/worksheet-gen/internal/authoring"
	"github.com/p-n-ai/worksheet-gen/internal/generator"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

const (
	defaultTitle        = "Grade 3 Practice Worksheet"
	defaultInstructions = "Answer the questions below. Show your work."
)

var (
	// ErrNoAuthor is returned when an ELA standard is requested without an AI provider.
	ErrNoAuthor = errors.New("AI authoring is not configured")
	// ErrNoPassage is returned when a passage operation targets a question without one.
	ErrNoPassage = errors.New("question has no passage")
	// ErrNoIllustration is returned when neither an image URL nor a prompt is given.
	ErrNoIllustration = errors.New("illustration needs an image URL or a prompt")
	// ErrEmptyQuestion is returned for a custom question without text.
	ErrEmptyQuestion = errors.New("question text is empty")
)

// Author is the AI side of the editor. *authoring.Author satisfies it.
type Author interface {
	GenerateWorksheet(ctx context.Context, req authoring.WorksheetRequest) (authoring.Generated, error)
	GenerateQuestion(ctx context.Context, standard string, subcategories []string, existing *authoring.Passage) (worksheet.Question, error)
	RegenerateGroup(ctx context.Context, standard string, count int, subcategories []string, length string) ([]worksheet.Question, error)
	Illustration(ctx context.Context, prompt string) (string, error)
}

// Notifier is told about every saved change.
type Notifier interface {
	Publish(w worksheet.Worksheet)
}

// Config holds the dependencies of a Service.
type Config struct {
	Store     worksheet.Store
	Generator *generator.Generator
	Author    Author            // nil disables ELA standards
	Catalog   authoring.Catalog // nil accepts any non-math standard ID
	Events    worksheet.EventLogger
	Notifier  Notifier
}

// Service is the worksheet editing API.
type Service struct {
	store    worksheet.Store
	gen      *generator.Generator
	author   Author
	catalog  authoring.Catalog
	events   worksheet.EventLogger
	notifier Notifier
	locks    *keyedMutex
}

// New creates a Service.
func New(cfg Config) *Service {
	store := cfg.Store
	if store == nil {
		store = worksheet.NewMemoryStore()
	}
	gen := cfg.Generator
	if gen == nil {
		gen = generator.New(generator.Options{})
	}
	events := cfg.Events
	if events == nil {
		events = worksheet.NopEventLogger{}
	}
	return &Service{
		store:    store,
		gen:      gen,
		author:   cfg.Author,
		catalog:  cfg.Catalog,
		events:   events,
		notifier: cfg.Notifier,
		locks:    newKeyedMutex(),
	}
}

// GenerationOptions are the generation settings shared by create, append and
// regenerate requests.
type GenerationOptions struct {
	Subcategories map[string][]string    `json:"subcategories,omitempty"`
	Mode          generator.QuestionMode `json:"mode,omitempty"`
	Names         []string               `json:"names,omitempty"`
	Topic         string                 `json:"topic,omitempty"`
	PassageLength string                 `json:"passageLength,omitempty"`
}

// CreateRequest describes a new worksheet.
type CreateRequest struct {
	Title        string                    `json:"title,omitempty"`
	Instructions string                    `json:"instructions,omitempty"`
	Standards    []generator.StandardCount `json:"standards"`
	GenerationOptions
}

// AppendRequest adds questions to an existing worksheet.
type AppendRequest struct {
	Standards         []generator.StandardCount `json:"standards"`
	ExtendLastPassage bool                      `json:"extendLastPassage,omitempty"`
	GenerationOptions
}

// IllustrationRequest sets an image from a URL or draws one from a prompt.
type IllustrationRequest struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
}

// Get returns a worksheet by ID.
func (s *Service) Get(ctx context.Context, id string) (worksheet.Worksheet, error) {
	return s.store.Get(ctx, id)
}

// List returns the most recently updated worksheets.
func (s *Service) List(ctx context.Context, limit int) ([]worksheet.Worksheet, error) {
	return s.store.List(ctx, limit)
}

// Delete removes a worksheet.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()
	return s.store.Delete(ctx, id)
}

// Create generates and stores a new worksheet. Math standards come from the
// template generators in request order, followed by the AI questions.
func (s *Service) Create(ctx context.Context, req CreateRequest) (worksheet.Worksheet, error) {
	gen, err := s.generate(ctx, req.Standards, req.GenerationOptions, nil)
	if err != nil {
		return worksheet.Worksheet{}, err
	}

	w := worksheet.Worksheet{
		Title:        firstNonEmpty(req.Title, gen.Title, defaultTitle),
		Instructions: firstNonEmpty(req.Instructions, gen.Instructions, defaultInstructions),
	}
	w.Append(gen.Questions)

	created, err := s.store.Create(ctx, w)
	if err != nil {
		return worksheet.Worksheet{}, fmt.Errorf("storing worksheet: %w", err)
	}
	slog.Info("worksheet created", "worksheet_id", created.ID, "questions", len(created.Questions))
	s.record(ctx, created, worksheet.EventCreated, map[string]any{"questions": len(created.Questions)})
	return created, nil
}

// Append generates more questions and adds them to the end of the worksheet.
// With ExtendLastPassage the AI questions are written about the last
// question's passage when it has a title and content.
func (s *Service) Append(ctx context.Context, id string, req AppendRequest) (worksheet.Worksheet, error) {
	return s.update(ctx, id, worksheet.EventAppended, func(w *worksheet.Worksheet) (map[string]any, error) {
		var existing *authoring.Passage
		if req.ExtendLastPassage && len(w.Questions) > 0 {
			last := w.Questions[len(w.Questions)-1]
			if last.Passage() != "" && last.VisualInfo.PassageTitle != "" {
				existing = &authoring.Passage{Title: last.VisualInfo.PassageTitle, Content: last.VisualInfo.PassageContent}
			}
		}
		gen, err := s.generate(ctx, req.Standards, req.GenerationOptions, existing)
		if err != nil {
			return nil, err
		}
		w.Append(gen.Questions)
		return map[string]any{"questions": len(gen.Questions), "extended": existing != nil}, nil
	})
}

// RegenerateQuestion replaces one question with a fresh one of the same
// standard. A question on a passage gets a new question about that passage.
func (s *Service) RegenerateQuestion(ctx context.Context, id string, index int, opts GenerationOptions) (worksheet.Worksheet, error) {
	return s.update(ctx, id, worksheet.EventQuestionRegenerated, func(w *worksheet.Worksheet) (map[string]any, error) {
		old, err := w.RegenerationTarget(index)
		if err != nil {
			return nil, err
		}
		subs := opts.Subcategories[old.StandardRef]

		var q worksheet.Question
		if generator.Supports(old.StandardRef) {
			q, err = s.gen.Generate(generator.Request{ID: old.ID, Standard: old.StandardRef, Names: opts.Names, Subcategories: subs})
			if err != nil {
				return nil, err
			}
			mode := opts.Mode
			if mode == "" {
				mode = modeOf(old)
			}
			q = s.gen.ApplyMode(q, mode)
		} else {
			if s.author == nil {
				return nil, ErrNoAuthor
			}
			var existing *authoring.Passage
			if old.VisualInfo != nil && old.VisualInfo.Type == worksheet.VisualTextPassage && old.Passage() != "" {
				existing = &authoring.Passage{Title: old.VisualInfo.PassageTitle, Content: old.VisualInfo.PassageContent}
			}
			q, err = s.author.GenerateQuestion(ctx, old.StandardRef, subs, existing)
			if err != nil {
				return nil, err
			}
		}

		if err := w.ReplaceQuestion(index, q); err != nil {
			return nil, err
		}
		return map[string]any{"index": index, "standard": old.StandardRef}, nil
	})
}

// RegeneratePassage replaces a passage and every question on it with a new
// passage and the same number of questions.
func (s *Service) RegeneratePassage(ctx context.Context, id string, index int, opts GenerationOptions) (worksheet.Worksheet, error) {
	return s.update(ctx, id, worksheet.EventPassageRegenerated, func(w *worksheet.Worksheet) (map[string]any, error) {
		target, err := w.RegenerationTarget(index)
		if err != nil {
			return nil, err
		}
		if target.Passage() == "" {
			return nil, ErrNoPassage
		}
		if s.author == nil {
			return nil, ErrNoAuthor
		}
		idx, err := w.PassageGroup(index)
		if err != nil {
			return nil, err
		}
		qs, err := s.author.RegenerateGroup(ctx, target.StandardRef, len(idx), opts.Subcategories[target.StandardRef], opts.PassageLength)
		if err != nil {
			return nil, err
		}
		if err := w.ReplaceGroup(index, qs); err != nil {
			return nil, err
		}
		return map[string]any{"index": index, "standard": target.StandardRef, "questions": len(idx)}, nil
	})
}

// DeleteQuestion removes one question.
func (s *Service) DeleteQuestion(ctx context.Context, id string, index int) (worksheet.Worksheet, error) {
	return s.update(ctx, id, worksheet.EventQuestionDeleted, func(w *worksheet.Worksheet) (map[string]any, error) {
		if err := w.DeleteQuestion(index); err != nil {
			return nil, err
		}
		return map[string]any{"index": index}, nil
	})
}

// DeletePassage removes a passage with all of its questions.
func (s *Service) DeletePassage(ctx context.Context, id string, index int) (worksheet.Worksheet, error) {
	return s.update(ctx, id, worksheet.EventPassageDeleted, func(w *worksheet.Worksheet) (map[string]any, error) {
		n, err := w.DeletePassageGroup(index)
		if err != nil {
			return nil, err
		}
		return map[string]any{"index": index, "removed": n}, nil
	})
}

// UpdateIllustration sets the picture of a question or of its whole passage.
func (s *Service) UpdateIllustration(ctx context.Context, id string, index int, req IllustrationRequest) (worksheet.Worksheet, error) {
	url := strings.TrimSpace(req.ImageURL)
	prompt := strings.TrimSpace(req.Prompt)
	if url == "" && prompt == "" {
		return worksheet.Worksheet{}, ErrNoIllustration
	}
	return s.update(ctx, id, worksheet.EventIllustrationUpdated, func(w *worksheet.Worksheet) (map[string]any, error) {
		// Check the index before paying for an image.
		if index < 0 || index >= len(w.Questions) {
			return nil, &worksheet.IndexError{Index: index, Len: len(w.Questions)}
		}
		source := "url"
		if url == "" {
			if s.author == nil {
				return nil, ErrNoAuthor
			}
			drawn, err := s.author.Illustration(ctx, prompt)
			if err != nil {
				return nil, err
			}
			url, source = drawn, "ai"
		}
		if err := w.UpdateIllustration(index, url); err != nil {
			return nil, err
		}
		return map[string]any{"index": index, "source": source}, nil
	})
}

// AddCustomQuestion appends a teacher-written question.
func (s *Service) AddCustomQuestion(ctx context.Context, id string, q worksheet.Question) (worksheet.Worksheet, error) {
	if strings.TrimSpace(q.Text) == "" {
		return worksheet.Worksheet{}, ErrEmptyQuestion
	}
	return s.update(ctx, id, worksheet.EventCustomQuestionAdded, func(w *worksheet.Worksheet) (map[string]any, error) {
		added := w.AddCustom(q)
		if err := worksheet.CheckOptions(added); err != nil {
			return nil, err
		}
		return map[string]any{"question_id": added.ID}, nil
	})
}

// UpdateQuestion replaces the text, options or answer of one question.
func (s *Service) UpdateQuestion(ctx context.Context, id string, index int, q worksheet.Question) (worksheet.Worksheet, error) {
	if err := worksheet.CheckOptions(q); err != nil {
		return worksheet.Worksheet{}, err
	}
	return s.update(ctx, id, worksheet.EventQuestionEdited, func(w *worksheet.Worksheet) (map[string]any, error) {
		if err := w.UpdateQuestion(index, q); err != nil {
			return nil, err
		}
		return map[string]any{"index": index}, nil
	})
}

// QuestionPatch lists the question fields an edit changes. Nil fields are kept.
type QuestionPatch struct {
	Text          *string   `json:"text,omitempty"`
	Options       *[]string `json:"options,omitempty"`
	CorrectAnswer *string   `json:"correctAnswer,omitempty"`
	ExtraSpace    *int      `json:"extraSpace,omitempty"`
}

// PatchQuestion applies the non-nil fields of p to one question.
func (s *Service) PatchQuestion(ctx context.Context, id string, index int, p QuestionPatch) (worksheet.Worksheet, error) {
	return s.update(ctx, id, worksheet.EventQuestionEdited, func(w *worksheet.Worksheet) (map[string]any, error) {
		if index < 0 || index >= len(w.Questions) {
			return nil, &worksheet.IndexError{Index: index, Len: len(w.Questions)}
		}
		q := w.Questions[index].Clone()
		if p.Text != nil {
			if strings.TrimSpace(*p.Text) == "" {
				return nil, ErrEmptyQuestion
			}
			q.Text = *p.Text
		}
		if p.Options != nil {
			q.Options = *p.Options
		}
		if p.CorrectAnswer != nil {
			q.CorrectAnswer = *p.CorrectAnswer
		}
		if p.ExtraSpace != nil {
			q.ExtraSpace = max(*p.ExtraSpace, 0)
		}
		if err := worksheet.CheckOptions(q); err != nil {
			return nil, err
		}
		if err := w.UpdateQuestion(index, q); err != nil {
			return nil, err
		}
		return map[string]any{"index": index}, nil
	})
}

// UpdatePassage rewrites a passage for every question that shares it.
func (s *Service) UpdatePassage(ctx context.Context, id string, index int, title, content string) (worksheet.Worksheet, error) {
	return s.update(ctx, id, worksheet.EventPassageEdited, func(w *worksheet.Worksheet) (map[string]any, error) {
		if err := w.UpdatePassage(index, title, content); err != nil {
			return nil, err
		}
		return map[string]any{"index": index}, nil
	})
}

// SetSpacing sets the blank lines printed below one question.
func (s *Service) SetSpacing(ctx context.Context, id string, index, space int) (worksheet.Worksheet, error) {
	return s.update(ctx, id, worksheet.EventSpacingChanged, func(w *worksheet.Worksheet) (map[string]any, error) {
		if err := w.SetSpacing(index, space); err != nil {
			return nil, err
		}
		return map[string]any{"index": index, "space": space}, nil
	})
}

// update runs fn on a copy of the stored worksheet while holding its lock and
// saves the copy only when fn succeeds.
func (s *Service) update(ctx context.Context, id, event string, fn func(w *worksheet.Worksheet) (map[string]any, error)) (worksheet.Worksheet, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	w, err := s.store.Get(ctx, id)
	if err != nil {
		return worksheet.Worksheet{}, err
	}
	data, err := fn(&w)
	if err != nil {
		slog.Warn("worksheet edit failed", "worksheet_id", id, "event", event, "error", err)
		return worksheet.Worksheet{}, err
	}
	saved, err := s.store.Save(ctx, w)
	if err != nil {
		return worksheet.Worksheet{}, fmt.Errorf("saving worksheet: %w", err)
	}
	s.record(ctx, saved, event, data)
	return saved, nil
}

func (s *Service) record(ctx context.Context, w worksheet.Worksheet, event string, data map[string]any) {
	if err := s.events.LogEvent(ctx, worksheet.Event{WorksheetID: w.ID, EventType: event, Data: data}); err != nil {
		slog.Warn("failed to log worksheet event", "worksheet_id", w.ID, "event", event, "error", err)
	}
	if s.notifier != nil {
		s.notifier.Publish(w)
	}
}

// generated is the combined output of the template generators and the author.
type generated struct {
	Title        string
	Instructions string
	Questions    []worksheet.Question
}

func (s *Service) generate(ctx context.Context, standards []generator.StandardCount, opts GenerationOptions, existing *authoring.Passage) (generated, error) {
	var math []generator.StandardCount
	ela := authoring.WorksheetRequest{
		Counts:        make(map[string]int),
		Subcategories: opts.Subcategories,
		Names:         strings.Join(opts.Names, ", "),
		Topic:         opts.Topic,
		PassageLength: opts.PassageLength,
		Existing:      existing,
	}
	total := 0
	for _, sc := range standards {
		if sc.Count < 0 {
			return generated{}, fmt.Errorf("standard %s: negative count %d", sc.Standard, sc.Count)
		}
		total += sc.Count
		if generator.Supports(sc.Standard) {
			math = append(math, sc)
			continue
		}
		if s.catalog != nil {
			if _, ok := s.catalog.Get(sc.Standard); !ok {
				return generated{}, &generator.UnknownStandardError{Standard: sc.Standard}
			}
		}
		if _, dup := ela.Counts[sc.Standard]; !dup {
			ela.Standards = append(ela.Standards, sc.Standard)
		}
		ela.Counts[sc.Standard] += sc.Count
	}
	if total == 0 {
		return generated{}, &generator.EmptyInputError{What: "standard counts"}
	}
	if ela.Total() > 0 && s.author == nil {
		return generated{}, ErrNoAuthor
	}

	var out generated
	if len(math) > 0 {
		mw, err := s.gen.Assemble(generator.AssembleRequest{
			Standards:     math,
			Mode:          opts.Mode,
			Names:         opts.Names,
			Subcategories: opts.Subcategories,
		})
		var empty *generator.EmptyInputError
		switch {
		case errors.As(err, &empty):
			// Every math count was zero.
		case err != nil:
			return generated{}, err
		default:
			out.Questions = append(out.Questions, mw.Questions...)
		}
	}
	if ela.Total() > 0 {
		g, err := s.author.GenerateWorksheet(ctx, ela)
		if err != nil {
			return generated{}, err
		}
		out.Title, out.Instructions = g.Title, g.Instructions
		out.Questions = append(out.Questions, g.Questions...)
	}
	return out, nil
}

func modeOf(q worksheet.Question) generator.QuestionMode {
	if q.Type == worksheet.MultipleChoice {
		return generator.ModeMultipleChoice
	}
	return generator.ModeOpenEnded
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
