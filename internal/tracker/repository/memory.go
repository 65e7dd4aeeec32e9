package repository

import (
	"context"
	"sort"
	"sync"

	"geofence-control-plane/internal/tracker/domain"
)

// MemoryStore is an in-memory Store implementation. It is the default when
// no database is configured; records live for the process lifetime.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]domain.User
}

// NewMemoryStore returns a new in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]domain.User)}
}

// Get returns a copy of the user record for name, or nil if unknown.
func (s *MemoryStore) Get(ctx context.Context, name string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.m[name]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Save upserts the user record by name.
func (s *MemoryStore) Save(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[u.Name] = *u
	return nil
}

// List returns all tracked users sorted by name.
func (s *MemoryStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0, len(s.m))
	for _, u := range s.m {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes the user record for name.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, name)
	return nil
}

// DeleteAll removes every user record.
func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]domain.User)
	return nil
}
