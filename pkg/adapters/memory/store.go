package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/walker/pkg/domain"
)

// Store implements ports.WorldStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with worlds.
func NewStore(seed map[string]string) *Store {
	s := &Store{data: make(map[string]string, len(seed))}
	for name, text := range seed {
		s.data[name] = text
	}
	return s
}

// Save stores the world text.
func (s *Store) Save(ctx context.Context, name string, text string) error {
	if err := domain.ValidateWorldName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = text
	return nil
}

// Load retrieves the world text.
func (s *Store) Load(ctx context.Context, name string) (string, error) {
	if err := domain.ValidateWorldName(name); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.data[name]
	if !ok {
		return "", domain.ErrWorldNotFound
	}
	return text, nil
}

// Delete removes the world.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored world names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
