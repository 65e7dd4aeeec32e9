package repository

import (
	"context"
	"sort"
	"sync"

	"geofence-control-plane/internal/geofence/domain"
)

// MemoryRegistry is an in-memory Registry implementation.
type MemoryRegistry struct {
	mu sync.RWMutex
	m  map[string]domain.Fence
}

// NewMemoryRegistry returns a new in-memory fence registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{m: make(map[string]domain.Fence)}
}

// Upsert creates or replaces the fence with the same name.
func (r *MemoryRegistry) Upsert(ctx context.Context, f *domain.Fence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[f.Name] = *f
	return nil
}

// Get returns a copy of the fence for name, or nil if unknown.
func (r *MemoryRegistry) Get(ctx context.Context, name string) (*domain.Fence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.m[name]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// List returns all fences sorted by name.
func (r *MemoryRegistry) List(ctx context.Context) ([]*domain.Fence, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Fence, 0, len(r.m))
	for _, f := range r.m {
		f := f
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
