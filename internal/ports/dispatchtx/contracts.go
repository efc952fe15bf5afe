package dispatchtx

import (
	"context"

	"service-dispatch/internal/domain"
)

// Repository is the write surface of the assignment transaction. All three
// writes of an assignment (claim courier, insert assignment, move the order)
// happen through one Repository inside one transaction.
type Repository interface {
	// ClaimCourier flips availability true→false. Returns false when the
	// courier was already claimed, which callers treat as a lost race.
	ClaimCourier(ctx context.Context, courierID int64) (bool, error)
	ReleaseCourier(ctx context.Context, courierID int64) error
	// UpdateCourierStats refreshes rating_avg and bumps total_deliveries
	// after a completed delivery.
	UpdateCourierStats(ctx context.Context, courierID int64) error
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
	GetActiveByOrderID(ctx context.Context, orderID string) (*domain.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id, courierID int64, from, to domain.AssignmentStatus) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error)
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
