package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
)

// FraudRepo persists fraud events and their resolution state.
type FraudRepo struct{ db *pgxpool.Pool }

// NewFraudRepo creates a new FraudRepo.
func NewFraudRepo(db *pgxpool.Pool) *FraudRepo { return &FraudRepo{db: db} }

// Insert stores the event with its details serialized as jsonb and fills ID
// and CreatedAt from the database.
func (r *FraudRepo) Insert(ctx context.Context, e *domain.FraudEvent) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("marshal fraud details: %w", err)
	}
	err = r.db.QueryRow(ctx, `
        INSERT INTO fraud_events (courier_id, order_id, type, severity, details)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `, e.CourierID, e.OrderID, string(e.Type), string(e.Severity), details).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert fraud event: %w", err)
	}
	return nil
}

// List returns events matching the filter, newest first.
func (r *FraudRepo) List(ctx context.Context, f domain.FraudFilter) ([]domain.FraudEvent, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
        SELECT id, courier_id, order_id, type, severity, details,
               resolved, resolution_notes, resolved_at, created_at
        FROM fraud_events
        WHERE ($1 = 0 OR courier_id = $1)
          AND ($2 = '' OR type = $2)
          AND ($3::boolean IS NULL OR resolved = $3)
        ORDER BY created_at DESC
        LIMIT $4
    `, f.CourierID, string(f.Type), f.Resolved, limit)
	if err != nil {
		return nil, fmt.Errorf("list fraud events: %w", err)
	}
	defer rows.Close()

	var out []domain.FraudEvent
	for rows.Next() {
		var (
			e   domain.FraudEvent
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.CourierID, &e.OrderID, &e.Type, &e.Severity, &raw,
			&e.Resolved, &e.ResolutionNotes, &e.ResolvedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fraud event: %w", err)
		}
		e.Details, err = decodeDetails(e.Type, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Resolve marks an unresolved event as resolved. Returns false when the event
// does not exist or was already resolved.
func (r *FraudRepo) Resolve(ctx context.Context, id int64, notes string) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE fraud_events
        SET resolved = true, resolution_notes = $2, resolved_at = now()
        WHERE id = $1 AND resolved = false
    `, id, notes)
	if err != nil {
		return false, fmt.Errorf("resolve fraud event %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Counts returns the unresolved severity aggregate for a courier.
func (r *FraudRepo) Counts(ctx context.Context, courierID int64) (domain.SeverityCounts, error) {
	var c domain.SeverityCounts
	err := r.db.QueryRow(ctx, `
        SELECT
            COUNT(*) FILTER (WHERE severity = 'critical'),
            COUNT(*) FILTER (WHERE severity = 'high'),
            COUNT(*) FILTER (WHERE created_at > now() - interval '7 days'),
            COUNT(*)
        FROM fraud_events
        WHERE courier_id = $1 AND resolved = false
    `, courierID).Scan(&c.Critical, &c.High, &c.Recent7d, &c.Total)
	if err != nil {
		return domain.SeverityCounts{}, fmt.Errorf("fraud counts for courier %d: %w", courierID, err)
	}
	return c, nil
}

func decodeDetails(t domain.FraudType, raw []byte) (domain.FraudDetails, error) {
	var (
		d   domain.FraudDetails
		err error
	)
	switch t {
	case domain.FraudTeleportation:
		var v domain.TeleportationDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case domain.FraudFakeDelivery:
		var v domain.FakeDeliveryDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case domain.FraudMultipleLogin:
		var v domain.MultipleLoginDetails
		err = json.Unmarshal(raw, &v)
		d = v
	default:
		return nil, fmt.Errorf("unknown fraud type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", t, err)
	}
	return d, nil
}
