package kafka

import (
	"time"

	"service-dispatch/internal/domain"
)

// PositionDTO is the wire shape of one telemetry sample.
type PositionDTO struct {
	CourierID int64     `json:"courier_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Speed     float64   `json:"speed"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// ToDomain converts PositionDTO to domain.Position.
func ToDomain(dto PositionDTO) domain.Position {
	return domain.Position{
		CourierID:  dto.CourierID,
		Lat:        dto.Lat,
		Lng:        dto.Lng,
		SpeedKmh:   dto.Speed,
		AccuracyM:  dto.Accuracy,
		RecordedAt: dto.Timestamp,
	}
}

// AlertDTO is the wire shape of a fraud alert.
type AlertDTO struct {
	CourierID int64     `json:"courier_id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Details   any       `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// FromEvent converts a domain.FraudEvent to its wire shape.
func FromEvent(e domain.FraudEvent) AlertDTO {
	return AlertDTO{
		CourierID: e.CourierID,
		Type:      string(e.Type),
		Severity:  string(e.Severity),
		Details:   e.Details,
		Timestamp: e.CreatedAt,
	}
}
