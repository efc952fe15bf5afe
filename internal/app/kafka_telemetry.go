package app

import (
	"context"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/transport/kafka"
)

type positionIngestor interface {
	Ingest(ctx context.Context, p domain.Position) error
}

// makeTelemetryKafka adapts the ingestor to the consumer contract. Each
// message gets its own deadline so one stuck write cannot stall the
// partition.
func makeTelemetryKafka(ingestor positionIngestor) kafka.HandleFunc {
	return func(ctx context.Context, p domain.Position) error {
		msgCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		return ingestor.Ingest(msgCtx, p)
	}
}
