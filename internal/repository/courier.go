package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/geo"
)

// CourierRepo reads courier registry rows and toggles availability.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

const courierColumns = `id, name, phone, available, active, rating_avg, total_deliveries, vehicle_type`

// GetByID - returns courier by its ID.
func (r *CourierRepo) GetByID(ctx context.Context, id int64) (*domain.Courier, error) {
	var c domain.Courier
	err := r.db.QueryRow(ctx,
		`SELECT `+courierColumns+` FROM couriers WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Available, &c.Active, &c.RatingAvg, &c.TotalDeliveries, &c.VehicleType)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %d: %w", id, err)
	}
	return &c, nil
}

// UpdateAvailability sets the availability flag and returns true if a row was affected.
func (r *CourierRepo) UpdateAvailability(ctx context.Context, id int64, available bool) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE couriers
        SET available = $2, updated_at = now()
        WHERE id = $1
    `, id, available)
	if err != nil {
		return false, fmt.Errorf("update courier availability %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// FindAvailableInBox returns available, active couriers whose latest position
// falls inside the bounding box and was recorded within the freshness window.
// The box is a coarse pre-filter; callers apply the exact distance check.
func (r *CourierRepo) FindAvailableInBox(ctx context.Context, box geo.BoundingBox, freshness time.Duration) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, `
        SELECT c.id, c.name, c.phone, c.available, c.active,
               c.rating_avg, c.total_deliveries, c.vehicle_type,
               cl.lat, cl.lng, cl.recorded_at
        FROM couriers c
        JOIN LATERAL (
            SELECT lat, lng, recorded_at
            FROM courier_locations
            WHERE courier_id = c.id
            ORDER BY recorded_at DESC
            LIMIT 1
        ) cl ON true
        WHERE c.available = true
          AND c.active = true
          AND cl.lat BETWEEN $1 AND $2
          AND cl.lng BETWEEN $3 AND $4
          AND cl.recorded_at > now() - $5::interval
    `, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng, freshness.String())
	if err != nil {
		return nil, fmt.Errorf("find couriers in box: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var cand domain.Candidate
		if err := rows.Scan(
			&cand.ID, &cand.Name, &cand.Phone, &cand.Available, &cand.Active,
			&cand.RatingAvg, &cand.TotalDeliveries, &cand.VehicleType,
			&cand.Lat, &cand.Lng, &cand.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, cand)
	}
	return out, rows.Err()
}

// ListActiveWithFreshPositions returns ids of active couriers whose latest
// position was recorded inside the freshness window. Used by the fraud sweep.
func (r *CourierRepo) ListActiveWithFreshPositions(ctx context.Context, freshness time.Duration) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
        SELECT c.id
        FROM couriers c
        JOIN LATERAL (
            SELECT recorded_at
            FROM courier_locations
            WHERE courier_id = c.id
            ORDER BY recorded_at DESC
            LIMIT 1
        ) cl ON true
        WHERE c.active = true
          AND cl.recorded_at > now() - $1::interval
        ORDER BY cl.recorded_at DESC
    `, freshness.String())
	if err != nil {
		return nil, fmt.Errorf("list active fresh couriers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
