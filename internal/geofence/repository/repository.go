// Package repository provides storage for the geofence registry.
package repository

import (
	"context"

	"geofence-control-plane/internal/geofence/domain"
)

// Registry persists fences by name. Upsert must be safe to call concurrently
// from multiple per-user processing goroutines; last writer wins.
type Registry interface {
	// Upsert creates or replaces the fence with the same name.
	Upsert(ctx context.Context, f *domain.Fence) error
	// Get returns the fence for name, or nil if unknown.
	// It returns an error only for storage failures, not for missing records.
	Get(ctx context.Context, name string) (*domain.Fence, error)
	// List returns all fences sorted by name.
	List(ctx context.Context) ([]*domain.Fence, error)
}
