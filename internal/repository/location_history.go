package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
)

// LocationHistoryRepo appends and reads the durable position trail.
type LocationHistoryRepo struct{ db *pgxpool.Pool }

// NewLocationHistoryRepo creates a new LocationHistoryRepo.
func NewLocationHistoryRepo(db *pgxpool.Pool) *LocationHistoryRepo {
	return &LocationHistoryRepo{db: db}
}

// Insert appends one position sample.
func (r *LocationHistoryRepo) Insert(ctx context.Context, p *domain.Position) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO courier_locations (courier_id, lat, lng, speed_kmh, accuracy_m, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, p.CourierID, p.Lat, p.Lng, p.SpeedKmh, p.AccuracyM, p.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert location for courier %d: %w", p.CourierID, err)
	}
	return nil
}

// Recent returns up to limit samples for the courier, newest first.
func (r *LocationHistoryRepo) Recent(ctx context.Context, courierID int64, limit int) ([]domain.Position, error) {
	rows, err := r.db.Query(ctx, `
        SELECT courier_id, lat, lng, speed_kmh, accuracy_m, recorded_at
        FROM courier_locations
        WHERE courier_id = $1
        ORDER BY recorded_at DESC
        LIMIT $2
    `, courierID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent locations for courier %d: %w", courierID, err)
	}
	defer rows.Close()

	var out []domain.Position
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(&p.CourierID, &p.Lat, &p.Lng, &p.SpeedKmh, &p.AccuracyM, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes samples older than the given number of days and
// returns how many rows were removed.
func (r *LocationHistoryRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        DELETE FROM courier_locations
        WHERE recorded_at < now() - make_interval(days => $1)
    `, days)
	if err != nil {
		return 0, fmt.Errorf("delete locations older than %d days: %w", days, err)
	}
	return ct.RowsAffected(), nil
}
