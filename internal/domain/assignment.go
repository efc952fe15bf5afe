package domain

import "time"

// AssignmentStatus represents the status of an order assignment.
type AssignmentStatus string

// List of possible assignment statuses
const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentRejected  AssignmentStatus = "rejected"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Active reports whether the assignment still claims its courier.
// At most one assignment per order may be active at a time.
func (s AssignmentStatus) Active() bool {
	return s == AssignmentAssigned || s == AssignmentAccepted
}

// Assignment links an order to the courier selected for it, with the score
// the courier won on and per-transition timestamps.
type Assignment struct {
	ID          int64
	OrderID     string
	CourierID   int64
	Score       float64
	Status      AssignmentStatus
	AssignedAt  time.Time
	AcceptedAt  *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// AssignResult - struct representing the result of assigning an order.
type AssignResult struct {
	AssignmentID int64
	OrderID      string
	CourierID    int64
	Score        float64
	DistanceKm   float64
	AssignedAt   time.Time
}
