package location

import (
	"context"

	"service-dispatch/internal/domain"
)

type liveCache interface {
	SetLive(ctx context.Context, p *domain.Position) error
	GetLive(ctx context.Context, courierID int64) (*domain.Position, error)
}

type historyRepository interface {
	Insert(ctx context.Context, p *domain.Position) error
	Recent(ctx context.Context, courierID int64, limit int) ([]domain.Position, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
