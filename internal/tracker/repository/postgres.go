package repository

import (
	"context"
	"database/sql"
	"errors"

	"geofence-control-plane/internal/tracker/domain"
)

// PostgresStore is a Store backed by the users table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a user store that uses the given db for persistence.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the user record for name, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (s *PostgresStore) Get(ctx context.Context, name string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, device_id, lat, lon, ts, current_fence, battery, tracker_id, inregions_supported
		FROM users WHERE name = $1`, name)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// Save upserts the user record by name.
func (s *PostgresStore) Save(ctx context.Context, u *domain.User) error {
	batt := sql.NullInt64{}
	if u.Battery != nil {
		batt = sql.NullInt64{Int64: int64(*u.Battery), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, device_id, lat, lon, ts, current_fence, battery, tracker_id, inregions_supported)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO UPDATE SET
			device_id = EXCLUDED.device_id,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon,
			ts = EXCLUDED.ts,
			current_fence = EXCLUDED.current_fence,
			battery = EXCLUDED.battery,
			tracker_id = EXCLUDED.tracker_id,
			inregions_supported = EXCLUDED.inregions_supported`,
		u.Name, u.DeviceID, u.Lat, u.Lon, u.Timestamp, u.CurrentFence, batt, u.TrackerID, u.InregionsSupported)
	return err
}

// List returns all tracked users sorted by name.
func (s *PostgresStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, device_id, lat, lon, ts, current_fence, battery, tracker_id, inregions_supported
		FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes the user record for name. Missing rows are not an error.
func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE name = $1`, name)
	return err
}

// DeleteAll removes every user record.
func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*domain.User, error) {
	var u domain.User
	var batt sql.NullInt64
	if err := r.Scan(&u.Name, &u.DeviceID, &u.Lat, &u.Lon, &u.Timestamp,
		&u.CurrentFence, &batt, &u.TrackerID, &u.InregionsSupported); err != nil {
		return nil, err
	}
	if batt.Valid {
		b := int(batt.Int64)
		u.Battery = &b
	}
	return &u, nil
}
