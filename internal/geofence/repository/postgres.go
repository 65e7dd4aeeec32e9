package repository

import (
	"context"
	"database/sql"
	"errors"

	"geofence-control-plane/internal/geofence/domain"
)

// PostgresRegistry is a Registry backed by the fences table.
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry returns a fence registry that uses the given db for persistence.
func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

// Upsert creates or replaces the fence with the same name.
func (r *PostgresRegistry) Upsert(ctx context.Context, f *domain.Fence) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fences (name, lat, lon, radius, ts)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			radius = EXCLUDED.radius,
			ts = EXCLUDED.ts`,
		f.Name, f.Lat, f.Lon, f.Radius, f.Timestamp)
	return err
}

// Get returns the fence for name, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRegistry) Get(ctx context.Context, name string) (*domain.Fence, error) {
	var f domain.Fence
	err := r.db.QueryRowContext(ctx,
		`SELECT name, lat, lon, radius, ts FROM fences WHERE name = $1`, name).
		Scan(&f.Name, &f.Lat, &f.Lon, &f.Radius, &f.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// List returns all fences sorted by name.
func (r *PostgresRegistry) List(ctx context.Context) ([]*domain.Fence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, lat, lon, radius, ts FROM fences ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Fence
	for rows.Next() {
		var f domain.Fence
		if err := rows.Scan(&f.Name, &f.Lat, &f.Lon, &f.Radius, &f.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
