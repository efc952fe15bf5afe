package handlers

import "time"

type updateLocationRequest struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Speed     float64    `json:"speed,omitempty"`
	Accuracy  float64    `json:"accuracy,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type positionDTO struct {
	CourierID int64     `json:"courier_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Speed     float64   `json:"speed"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type assignResponse struct {
	AssignmentID int64     `json:"assignment_id"`
	OrderID      string    `json:"order_id"`
	CourierID    int64     `json:"courier_id"`
	Score        float64   `json:"score"`
	DistanceKm   float64   `json:"distance_km"`
	AssignedAt   time.Time `json:"assigned_at"`
}

type candidateDTO struct {
	CourierID       int64   `json:"courier_id"`
	Name            string  `json:"name"`
	VehicleType     string  `json:"vehicle_type"`
	RatingAvg       float64 `json:"rating_avg"`
	TotalDeliveries int64   `json:"total_deliveries"`
	DistanceKm      float64 `json:"distance_km"`
	Score           float64 `json:"score"`
	Breakdown       any     `json:"breakdown"`
}

type assignmentActionRequest struct {
	CourierID int64 `json:"courier_id"`
}

type fraudEventDTO struct {
	ID              int64      `json:"id"`
	CourierID       int64      `json:"courier_id"`
	OrderID         *string    `json:"order_id,omitempty"`
	Type            string     `json:"type"`
	Severity        string     `json:"severity"`
	Details         any        `json:"details"`
	Resolved        bool       `json:"resolved"`
	ResolutionNotes *string    `json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type resolveRequest struct {
	Notes string `json:"notes"`
}
