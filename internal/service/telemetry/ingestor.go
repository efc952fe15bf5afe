package telemetry

import (
	"context"

	"service-dispatch/internal/broadcast"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

type positionStore interface {
	Update(ctx context.Context, p domain.Position) error
}

type teleportationChecker interface {
	CheckTeleportation(ctx context.Context, courierID int64) (*domain.FraudEvent, error)
}

type publisher interface {
	Publish(topic string, payload any) int
}

// Ingestor is the single entry point for position samples, whether they
// arrive over Kafka or HTTP. It stores the sample, runs the inline
// teleportation check and fans the update out to subscribers.
type Ingestor struct {
	store  positionStore
	fraud  teleportationChecker
	events publisher
	logger logx.Logger
}

// NewIngestor - creates a new Ingestor.
func NewIngestor(store positionStore, fraud teleportationChecker, events publisher, logger logx.Logger) *Ingestor {
	return &Ingestor{store: store, fraud: fraud, events: events, logger: logger}
}

// Ingest processes one position sample. A storage failure fails the ingest; a
// failed teleportation check degrades to "not suspicious".
func (i *Ingestor) Ingest(ctx context.Context, p domain.Position) error {
	if err := i.store.Update(ctx, p); err != nil {
		return err
	}

	event, err := i.fraud.CheckTeleportation(ctx, p.CourierID)
	if err != nil {
		i.logger.Warn("inline teleportation check failed",
			logx.Int64("courier_id", p.CourierID),
			logx.Any("err", err),
		)
	}

	i.events.Publish(broadcast.TopicLocationUpdated, p)
	if event != nil {
		i.events.Publish(broadcast.TopicFraudAlert, *event)
	}
	return nil
}
