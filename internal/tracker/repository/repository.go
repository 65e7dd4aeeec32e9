// Package repository provides storage for tracked user records.
package repository

import (
	"context"

	"geofence-control-plane/internal/tracker/domain"
)

// Store persists per-user tracker state. The engine serializes access per
// user, so implementations only need each call to be individually safe.
type Store interface {
	// Get returns the user record for name, or nil if the user is unknown.
	// It returns an error only for storage failures, not for missing records.
	Get(ctx context.Context, name string) (*domain.User, error)
	// Save upserts the user record by name.
	Save(ctx context.Context, u *domain.User) error
	// List returns all tracked users.
	List(ctx context.Context) ([]*domain.User, error)
	// Delete removes the user record for name. Deleting an unknown user is not an error.
	Delete(ctx context.Context, name string) error
	// DeleteAll removes every user record.
	DeleteAll(ctx context.Context) error
}
