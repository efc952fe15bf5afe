package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-dispatch/internal/domain"
)

// OrderRepo reads and updates order rows.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

// GetByID - returns order by its ID, nil when missing.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.QueryRow(ctx, `
        SELECT id, pickup_lat, pickup_lng, drop_lat, drop_lng, status
        FROM orders
        WHERE id = $1
    `, id).Scan(&o.ID, &o.PickupLat, &o.PickupLng, &o.DropLat, &o.DropLng, &o.Status)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return &o, nil
}

// UpdateStatus transitions the order from -> to outside a dispatch transaction.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE orders
        SET status = $3, updated_at = now()
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update order %s status: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
