package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/ports/dispatchtx"
)

// DispatchRepo represents the assignment repository.
type DispatchRepo struct {
	db *pgxpool.Pool
}

// NewDispatchRepo creates a new DispatchRepo.
func NewDispatchRepo(db *pgxpool.Pool) *DispatchRepo {
	return &DispatchRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *DispatchRepo) WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetAssignment returns the assignment by id, nil when missing.
func (r *DispatchRepo) GetAssignment(ctx context.Context, id int64) (*domain.Assignment, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, order_id, courier_id, score, status,
               assigned_at, accepted_at, completed_at, cancelled_at
        FROM assignments
        WHERE id = $1
    `, id)

	var a domain.Assignment
	err := row.Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Score, &a.Status,
		&a.AssignedAt, &a.AcceptedAt, &a.CompletedAt, &a.CancelledAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment %d: %w", id, err)
	}
	return &a, nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

// ClaimCourier atomically flips an available active courier to busy.
// Returns false when the courier was already claimed or does not exist.
func (r *TxRepo) ClaimCourier(ctx context.Context, courierID int64) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE couriers
        SET available = false, updated_at = now()
        WHERE id = $1 AND available = true AND active = true
    `, courierID)
	if err != nil {
		return false, fmt.Errorf("claim courier %d: %w", courierID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ReleaseCourier makes the courier available again.
func (r *TxRepo) ReleaseCourier(ctx context.Context, courierID int64) error {
	_, err := r.tx.Exec(ctx, `
        UPDATE couriers
        SET available = true, updated_at = now()
        WHERE id = $1
    `, courierID)
	if err != nil {
		return fmt.Errorf("release courier %d: %w", courierID, err)
	}
	return nil
}

// UpdateCourierStats recomputes the rating average and counts the finished
// delivery. Couriers without ratings keep their current average.
func (r *TxRepo) UpdateCourierStats(ctx context.Context, courierID int64) error {
	_, err := r.tx.Exec(ctx, `
        UPDATE couriers
        SET rating_avg = COALESCE(
                (SELECT AVG(rating) FROM ratings WHERE courier_id = $1),
                rating_avg
            ),
            total_deliveries = total_deliveries + 1,
            updated_at = now()
        WHERE id = $1
    `, courierID)
	if err != nil {
		return fmt.Errorf("update courier stats %d: %w", courierID, err)
	}
	return nil
}

// InsertAssignment - insert a new assignment.
func (r *TxRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO assignments (order_id, courier_id, score, status, assigned_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, a.OrderID, a.CourierID, a.Score, string(a.Status), a.AssignedAt).Scan(&a.ID)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.Conflict
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// GetActiveByOrderID returns the assigned or accepted assignment for the order.
func (r *TxRepo) GetActiveByOrderID(ctx context.Context, orderID string) (*domain.Assignment, error) {
	row := r.tx.QueryRow(ctx, `
        SELECT id, order_id, courier_id, score, status,
               assigned_at, accepted_at, completed_at, cancelled_at
        FROM assignments
        WHERE order_id = $1 AND status IN ('assigned', 'accepted')
        ORDER BY assigned_at DESC
        LIMIT 1
    `, orderID)

	var a domain.Assignment
	err := row.Scan(&a.ID, &a.OrderID, &a.CourierID, &a.Score, &a.Status,
		&a.AssignedAt, &a.AcceptedAt, &a.CompletedAt, &a.CancelledAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active assignment for order %s: %w", orderID, err)
	}
	return &a, nil
}

// UpdateAssignmentStatus transitions the assignment from -> to, guarded by the
// current status and courier id. Returns false when no row matched the guard.
func (r *TxRepo) UpdateAssignmentStatus(ctx context.Context, id, courierID int64, from, to domain.AssignmentStatus) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE assignments
        SET status = $4,
            accepted_at  = CASE WHEN $4 = 'accepted'  THEN now() ELSE accepted_at  END,
            completed_at = CASE WHEN $4 = 'completed' THEN now() ELSE completed_at END,
            cancelled_at = CASE WHEN $4 IN ('rejected', 'cancelled') THEN now() ELSE cancelled_at END
        WHERE id = $1 AND courier_id = $2 AND status = $3
    `, id, courierID, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update assignment %d status: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdateOrderStatus transitions the order from -> to, guarded by the current
// status. Returns false when no row matched the guard.
func (r *TxRepo) UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET status = $3, updated_at = now()
        WHERE id = $1 AND status = $2
    `, orderID, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update order %s status: %w", orderID, err)
	}
	return ct.RowsAffected() > 0, nil
}
