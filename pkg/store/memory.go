package store

import (
	"context"
	"sort"
	"sync"

	"github.com/flowline-dev/flowline/pkg/errors"
)

// MemoryStore implements Store in process memory. It backs tests and
// single-process deployments that don't want a database.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]*Diagram
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{diagrams: make(map[string]*Diagram)}
}

// Save inserts or replaces a diagram by ID.
func (s *MemoryStore) Save(ctx context.Context, d *Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *d
	s.diagrams[d.ID] = &copy
	return nil
}

// Get returns the diagram with the given ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
	}
	copy := *d
	return &copy, nil
}

// List returns summaries of all stored diagrams, most recently updated first.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]Summary, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		summaries = append(summaries, summarize(d))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes the diagram with the given ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.diagrams[id]; !ok {
		return errors.New(errors.ErrCodeDiagramNotFound, "diagram %s not found", id)
	}
	delete(s.diagrams, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
