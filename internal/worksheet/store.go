package worksheet

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a worksheet ID is unknown to the store.
var ErrNotFound = errors.New("worksheet not found")

// Store persists worksheets. Implementations return copies; callers may mutate
// what they get without affecting stored state until they call Save.
type Store interface {
	Create(ctx context.Context, w Worksheet) (Worksheet, error)
	Get(ctx context.Context, id string) (Worksheet, error)
	Save(ctx context.Context, w Worksheet) (Worksheet, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]Worksheet, error)
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	worksheets map[string]Worksheet
	mu         sync.RWMutex
	now        func() time.Time
}

// NewMemoryStore creates a new in-memory worksheet store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		worksheets: make(map[string]Worksheet),
		now:        time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, w Worksheet) (Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w = w.Clone()
	w.ID = uuid.NewString()
	w.CreatedAt = s.now()
	w.UpdatedAt = w.CreatedAt
	s.worksheets[w.ID] = w
	return w.Clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Worksheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.worksheets[id]
	if !ok {
		return Worksheet{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return w.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, w Worksheet) (Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.worksheets[w.ID]
	if !ok {
		return Worksheet{}, fmt.Errorf("%w: %s", ErrNotFound, w.ID)
	}
	w = w.Clone()
	w.CreatedAt = old.CreatedAt
	w.UpdatedAt = s.now()
	s.worksheets[w.ID] = w
	return w.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.worksheets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.worksheets, id)
	return nil
}

// List returns up to limit worksheets, most recently updated first.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Worksheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Worksheet, 0, len(s.worksheets))
	for _, w := range s.worksheets {
		out = append(out, w.Clone())
	}
	slices.SortFunc(out, func(a, b Worksheet) int {
		return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), cmp.Compare(a.ID, b.ID))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
