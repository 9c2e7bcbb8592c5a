// Package generator builds grade 3 math questions from templates. Every random
// choice flows through one seeded source, so a fixed seed reproduces a worksheet.
package generator

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

const (
	defaultMaxRetries         = 10
	defaultUniquenessAttempts = 5
)

// errDegenerate marks a random draw that must be thrown away and redrawn.
var errDegenerate = errors.New("degenerate draw")

// Options configures a Generator.
type Options struct {
	Seed               uint64   // 0 seeds from the clock
	Names              []string // default name pool for word problems
	MaxRetries         int
	UniquenessAttempts int
}

// Generator produces questions. It is safe for concurrent use; calls are
// serialized so the random sequence stays reproducible for a given seed.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	names      []string
	maxRetries int
	uniqueness int
}

// New creates a Generator.
func New(opts Options) *Generator {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	g := &Generator{
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		names:      opts.Names,
		maxRetries: opts.MaxRetries,
		uniqueness: opts.UniquenessAttempts,
	}
	if g.maxRetries <= 0 {
		g.maxRetries = defaultMaxRetries
	}
	if g.uniqueness <= 0 {
		g.uniqueness = defaultUniquenessAttempts
	}
	return g
}

// Request asks for one question.
type Request struct {
	ID            int
	Standard      string
	Names         []string // overrides the generator's default pool when set
	Subcategories []string
}

// Generate produces one question for req.Standard.
func (g *Generator) Generate(req Request) (worksheet.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generate(req)
}

func (g *Generator) generate(req Request) (worksheet.Question, error) {
	fn, ok := registry[req.Standard]
	if !ok {
		return worksheet.Question{}, &UnknownStandardError{Standard: req.Standard}
	}
	if len(req.Names) == 0 {
		req.Names = g.names
	}

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		q, err := fn(g, req)
		if errors.Is(err, errDegenerate) {
			continue
		}
		if err != nil {
			return worksheet.Question{}, err
		}
		q.ID = req.ID
		q.StandardRef = req.Standard
		return q, nil
	}
	return worksheet.Question{}, &GenerationRetryExhausted{Standard: req.Standard, Attempts: g.maxRetries}
}

func mc(text, answer string, options []string) worksheet.Question {
	return worksheet.Question{Type: worksheet.MultipleChoice, Text: text, CorrectAnswer: answer, Options: options}
}

// open builds an open-ended question. Options, when given, are kept so the
// question can be switched to multiple choice later.
func open(text, answer string, options []string) worksheet.Question {
	return worksheet.Question{Type: worksheet.OpenEnded, Text: text, CorrectAnswer: answer, Options: options}
}

func withVisual(q worksheet.Question, v worksheet.VisualData) worksheet.Question {
	q.VisualInfo = &v
	return q
}

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }
