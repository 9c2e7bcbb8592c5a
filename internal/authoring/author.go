package authoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/p-n-ai/worksheet-gen/internal/ai"
	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = 2 * time.Second

	// DefaultInstructions is used when the model leaves instructions empty.
	DefaultInstructions = "Read each question carefully. Choose or write the best answer."

	illustrationAspect = "16:9"
)

var (
	// ErrEmptyRequest is returned when a worksheet request asks for no questions.
	ErrEmptyRequest = errors.New("worksheet request has no questions")
	// ErrGenerationFailed wraps the last error after every attempt failed.
	ErrGenerationFailed = errors.New("AI generation failed")
)

// Completer produces text completions. *ai.Router satisfies it.
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (ai.CompletionResponse, error)
}

// ImageGenerator draws illustrations. *ai.Router satisfies it.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ai.ImageRequest) (ai.ImageResponse, error)
}

// Passage is an existing reading passage new questions must reuse.
type Passage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// WorksheetRequest asks the model for a whole worksheet.
type WorksheetRequest struct {
	Standards     []string
	Counts        map[string]int
	Subcategories map[string][]string
	Names         string
	Topic         string
	PassageLength string
	Title         string // overrides the model's title when set
	Existing      *Passage
}

// Total returns the number of questions requested.
func (r WorksheetRequest) Total() int {
	n := 0
	for _, id := range r.Standards {
		n += r.Counts[id]
	}
	return n
}

func (r WorksheetRequest) cacheKey() string {
	p := worksheet.CacheParams{
		Standards:     r.Standards,
		Counts:        r.Counts,
		Subcategories: r.Subcategories,
		Names:         r.Names,
		Topic:         r.Topic,
		PassageLength: r.PassageLength,
	}
	if r.Existing != nil {
		p.PassageTitle = r.Existing.Title
		p.PassageContent = r.Existing.Content
	}
	return worksheet.CacheKey(p)
}

// Config holds the dependencies of an Author.
type Config struct {
	Completer  Completer
	Images     ImageGenerator
	Catalog    Catalog
	Cache      Cache
	Attempts   int           // default 3
	RetryDelay time.Duration // default 2s; negative means no delay
	Seed       uint64        // 0 seeds from the clock
}

// Author generates ELA content through an AI provider.
type Author struct {
	completer  Completer
	images     ImageGenerator
	catalog    Catalog
	cache      Cache
	attempts   int
	retryDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Author.
func New(cfg Config) *Author {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := cfg.RetryDelay
	if delay == 0 {
		delay = defaultRetryDelay
	}
	if delay < 0 {
		delay = 0
	}
	c := cfg.Cache
	if c == nil {
		c = NopCache{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Author{
		completer:  cfg.Completer,
		images:     cfg.Images,
		catalog:    cfg.Catalog,
		cache:      c,
		attempts:   attempts,
		retryDelay: delay,
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// GenerateWorksheet returns a worksheet for req, served from the cache when an
// identical request was generated recently. Questions sharing a passage stay
// adjacent; the groups themselves are shuffled and IDs run from 1.
func (a *Author) GenerateWorksheet(ctx context.Context, req WorksheetRequest) (Generated, error) {
	if req.Total() <= 0 {
		return Generated{}, ErrEmptyRequest
	}

	key := req.cacheKey()
	if cached, err := a.cache.Get(ctx, key); err == nil {
		slog.Info("worksheet served from cache", "key", key)
		return withTitle(cached, req.Title), nil
	} else if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("generation cache read failed", "key", key, "error", err)
	}

	var out Generated
	err := a.retry(ctx, ai.TaskWorksheet, func(ctx context.Context) error {
		raw, err := a.complete(ctx, ai.TaskWorksheet, WorksheetPrompt(a.catalog, req), 0.95)
		if err != nil {
			return err
		}
		data, err := ExtractJSON(raw)
		if err != nil {
			return err
		}
		if err := worksheetSchema.validate(data); err != nil {
			return err
		}
		var g Generated
		if err := DecodeJSON(string(data), &g); err != nil {
			return err
		}
		if err := checkQuestions(g.Questions); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return Generated{}, err
	}

	if req.Existing != nil {
		for i := range out.Questions {
			usePassage(&out.Questions[i], *req.Existing)
		}
	}
	out.Questions = a.group(out.Questions)
	for i := range out.Questions {
		out.Questions[i].ID = i + 1
	}
	if strings.TrimSpace(out.Instructions) == "" {
		out.Instructions = DefaultInstructions
	}

	if err := a.cache.Set(ctx, key, out); err != nil {
		slog.Warn("generation cache write failed", "key", key, "error", err)
	}
	return withTitle(out, req.Title), nil
}

// GenerateQuestion returns one replacement question for standard. With an
// existing passage the question is written about it and its passage fields
// are left for the caller to restore.
func (a *Author) GenerateQuestion(ctx context.Context, standard string, subcategories []string, existing *Passage) (worksheet.Question, error) {
	var q worksheet.Question
	err := a.retry(ctx, ai.TaskQuestion, func(ctx context.Context) error {
		raw, err := a.complete(ctx, ai.TaskQuestion, QuestionPrompt(a.catalog, standard, subcategories, existing), 0.9)
		if err != nil {
			return err
		}
		data, err := ExtractJSON(raw)
		if err != nil {
			return err
		}
		if err := singleQuestionSchema.validate(data); err != nil {
			return err
		}
		var got worksheet.Question
		if err := DecodeJSON(string(data), &got); err != nil {
			return err
		}
		if err := checkQuestions([]worksheet.Question{got}); err != nil {
			return err
		}
		q = got
		return nil
	})
	if err != nil {
		return worksheet.Question{}, err
	}
	q.StandardRef = standard
	return q, nil
}

// RegenerateGroup returns count questions about one fresh passage. Extra
// questions are dropped; too few is a validation failure and is retried.
func (a *Author) RegenerateGroup(ctx context.Context, standard string, count int, subcategories []string, length string) ([]worksheet.Question, error) {
	if count <= 0 {
		return nil, ErrEmptyRequest
	}

	var qs []worksheet.Question
	err := a.retry(ctx, ai.TaskPassage, func(ctx context.Context) error {
		raw, err := a.complete(ctx, ai.TaskPassage, GroupPrompt(a.catalog, standard, count, subcategories, length), 0.95)
		if err != nil {
			return err
		}
		data, err := ExtractJSON(raw)
		if err != nil {
			return err
		}
		if err := groupSchema.validate(data); err != nil {
			return err
		}
		var got struct {
			Questions []worksheet.Question `json:"questions"`
		}
		if err := DecodeJSON(string(data), &got); err != nil {
			return err
		}
		if len(got.Questions) < count {
			return &ValidationError{Errors: []string{fmt.Sprintf("got %d questions, want %d", len(got.Questions), count)}}
		}
		got.Questions = got.Questions[:count]
		if err := checkQuestions(got.Questions); err != nil {
			return err
		}
		qs = got.Questions
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The group must print under one passage even if the model drifted.
	if first := qs[0]; first.Passage() != "" {
		p := Passage{Title: first.VisualInfo.PassageTitle, Content: first.VisualInfo.PassageContent}
		for i := range qs {
			usePassage(&qs[i], p)
		}
	}
	for i := range qs {
		qs[i].StandardRef = standard
	}
	return qs, nil
}

// Illustration draws an image for prompt and returns it as a data URL.
func (a *Author) Illustration(ctx context.Context, prompt string) (string, error) {
	if a.images == nil {
		return "", fmt.Errorf("%w: no image provider", ErrGenerationFailed)
	}
	var url string
	err := a.retry(ctx, ai.TaskIllustration, func(ctx context.Context) error {
		resp, err := a.images.GenerateImage(ctx, ai.ImageRequest{Prompt: prompt, AspectRatio: illustrationAspect})
		if err != nil {
			return err
		}
		url = resp.DataURL
		return nil
	})
	return url, err
}

func (a *Author) complete(ctx context.Context, task ai.TaskType, prompt string, temperature float64) (string, error) {
	if a.completer == nil {
		return "", ai.ErrNoProviders
	}
	resp, err := a.completer.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		Task:        task,
		JSON:        true,
	})
	if err != nil {
		return "", err
	}
	slog.Debug("authoring completion", "task", task.String(), "model", resp.Model, "tokens", resp.TotalTokens())
	if strings.TrimSpace(resp.Content) == "" {
		return "", &ParseError{Reason: "empty response"}
	}
	return resp.Content, nil
}

// retry runs fn up to a.attempts times with a fixed delay between attempts.
// Provider, parse and validation failures are all retried.
func (a *Author) retry(ctx context.Context, task ai.TaskType, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		if attempt > 1 && a.retryDelay > 0 {
			timer := time.NewTimer(a.retryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w: %s: %w", ErrGenerationFailed, task, ctx.Err())
			case <-timer.C:
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		slog.Warn("AI generation attempt failed",
			"task", task.String(),
			"attempt", attempt,
			"max_attempts", a.attempts,
			"error", err,
		)
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w: %s after %d attempts: %w", ErrGenerationFailed, task, a.attempts, lastErr)
}

func (a *Author) group(qs []worksheet.Question) []worksheet.Question {
	a.mu.Lock()
	defer a.mu.Unlock()
	return worksheet.NormalizeAndGroup(qs, a.rng)
}

func usePassage(q *worksheet.Question, p Passage) {
	if q.VisualInfo == nil {
		q.VisualInfo = &worksheet.VisualData{}
	}
	q.VisualInfo.Type = worksheet.VisualTextPassage
	q.VisualInfo.PassageTitle = p.Title
	q.VisualInfo.PassageContent = p.Content
}

func withTitle(g Generated, title string) Generated {
	if t := strings.TrimSpace(title); t != "" {
		g.Title = t
	}
	return g
}
