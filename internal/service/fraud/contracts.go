package fraud

import (
	"context"
	"time"

	"service-dispatch/internal/domain"
)

type locationSource interface {
	Current(ctx context.Context, courierID int64) (*domain.Position, error)
	History(ctx context.Context, courierID int64, limit int) ([]domain.Position, error)
}

type sessionSource interface {
	ActiveSessions(ctx context.Context, courierID int64, window time.Duration) ([]domain.DeviceSession, error)
}

type eventStore interface {
	Insert(ctx context.Context, e *domain.FraudEvent) error
	List(ctx context.Context, f domain.FraudFilter) ([]domain.FraudEvent, error)
	Resolve(ctx context.Context, id int64, notes string) (bool, error)
	Counts(ctx context.Context, courierID int64) (domain.SeverityCounts, error)
}

type alertPublisher interface {
	PublishAlert(ctx context.Context, e domain.FraudEvent) error
}
