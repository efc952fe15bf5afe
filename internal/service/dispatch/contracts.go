package dispatch

import (
	"context"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/geo"
	"service-dispatch/internal/ports/dispatchtx"
)

type orderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type courierFinder interface {
	FindAvailableInBox(ctx context.Context, box geo.BoundingBox, freshness time.Duration) ([]domain.Candidate, error)
}

type assignmentReader interface {
	GetAssignment(ctx context.Context, id int64) (*domain.Assignment, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) error
}

// deliveryGuard screens a completion attempt. A non-nil event means the
// courier is outside the drop geofence and the completion must not proceed.
type deliveryGuard interface {
	CheckFakeDelivery(ctx context.Context, courierID int64, order *domain.Order) (*domain.FraudEvent, error)
}
