package curriculum

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const notesSuffix = ".notes.md"

// Loader loads and caches the standards catalog from a filesystem.
type Loader struct {
	fsys      fs.FS
	standards map[string]Standard
	order     []string
	mu        sync.RWMutex
}

// NewLoader loads the catalog rooted at rootDir on disk.
func NewLoader(rootDir string) (*Loader, error) {
	return NewLoaderFS(os.DirFS(rootDir))
}

// NewLoaderFS loads the catalog from fsys: every *.yaml or *.yml file is a
// Catalog, and every <id>.notes.md file supplies prompt notes for a standard
// whose YAML entry has none.
func NewLoaderFS(fsys fs.FS) (*Loader, error) {
	l := &Loader{
		fsys:      fsys,
		standards: make(map[string]Standard),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading standards: %w", err)
	}

	slog.Info("standards loaded", "standards", len(l.standards))
	return l, nil
}

// Get returns a standard by ID.
func (l *Loader) Get(id string) (Standard, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.standards[id]
	return s, ok
}

// All returns every standard in catalog order.
func (l *Loader) All() []Standard {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Standard, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.standards[id])
	}
	return out
}

// BySubject returns the standards of one subject in catalog order.
func (l *Loader) BySubject(subject string) []Standard {
	var out []Standard
	for _, s := range l.All() {
		if s.Subject == subject {
			out = append(out, s)
		}
	}
	return out
}

func (l *Loader) loadAll() error {
	notes := make(map[string]string)
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(p, notesSuffix):
			data, err := fs.ReadFile(l.fsys, p)
			if err != nil {
				return err
			}
			notes[strings.TrimSuffix(path.Base(p), notesSuffix)] = strings.TrimSpace(string(data))
		case strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml"):
			return l.loadCatalog(p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Notes files fill in after the walk so file order does not matter.
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, n := range notes {
		s, ok := l.standards[id]
		if !ok {
			slog.Warn("prompt notes for unknown standard", "standard", id)
			continue
		}
		if s.PromptNotes == "" {
			s.PromptNotes = n
			l.standards[id] = s
		}
	}
	return nil
}

func (l *Loader) loadCatalog(p string) error {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return err
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		slog.Warn("skipping invalid standards YAML", "path", p, "error", err)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range cat.Standards {
		if s.ID == "" {
			continue
		}
		if _, dup := l.standards[s.ID]; dup {
			slog.Warn("duplicate standard, keeping first", "standard", s.ID, "path", p)
			continue
		}
		if s.Subject == "" {
			s.Subject = cat.Subject
		}
		s.PromptNotes = strings.TrimSpace(s.PromptNotes)
		l.standards[s.ID] = s
		l.order = append(l.order, s.ID)
	}
	return nil
}
