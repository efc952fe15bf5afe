package handlers

import (
	"context"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/fraud"
	"service-dispatch/internal/service/location"
	"service-dispatch/internal/service/telemetry"
)

type dispatchUsecase interface {
	Assign(ctx context.Context, orderID string) (domain.AssignResult, error)
	Reassign(ctx context.Context, orderID string) (domain.AssignResult, error)
	Candidates(ctx context.Context, orderID string) ([]domain.ScoredCandidate, error)
	Accept(ctx context.Context, assignmentID, courierID int64) error
	Reject(ctx context.Context, assignmentID, courierID int64) error
	Complete(ctx context.Context, assignmentID, courierID int64) error
}

// NewDispatchUsecase wires a dispatch Coordinator into a dispatchUsecase.
func NewDispatchUsecase(c *dispatch.Coordinator) dispatchUsecase {
	return c
}

type locationUsecase interface {
	Current(ctx context.Context, courierID int64) (*domain.Position, error)
	History(ctx context.Context, courierID int64, limit int) ([]domain.Position, error)
}

// NewLocationUsecase wires a location Store into a locationUsecase.
func NewLocationUsecase(s *location.Store) locationUsecase {
	return s
}

type telemetryUsecase interface {
	Ingest(ctx context.Context, p domain.Position) error
}

// NewTelemetryUsecase wires a telemetry Ingestor into a telemetryUsecase.
func NewTelemetryUsecase(i *telemetry.Ingestor) telemetryUsecase {
	return i
}

type fraudUsecase interface {
	Events(ctx context.Context, f domain.FraudFilter) ([]domain.FraudEvent, error)
	Resolve(ctx context.Context, id int64, notes string) error
	RiskScore(ctx context.Context, courierID int64) (domain.RiskScore, error)
}

// NewFraudUsecase wires a fraud Detector into a fraudUsecase.
func NewFraudUsecase(d *fraud.Detector) fraudUsecase {
	return d
}
