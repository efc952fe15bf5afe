package domain

import "time"

// Candidate is an available courier inside the search radius, with the live
// position it was found at and the exact great-circle distance to the pickup.
type Candidate struct {
	Courier
	Lat        float64
	Lng        float64
	LastSeen   time.Time
	DistanceKm float64
}

// ScoreBreakdown carries per-component scores, each normalized to [0,1],
// plus the weighted final score.
type ScoreBreakdown struct {
	DistanceScore     float64 `json:"distance_score"`
	RatingScore       float64 `json:"rating_score"`
	ExperienceScore   float64 `json:"experience_score"`
	AvailabilityScore float64 `json:"availability_score"`
	Final             float64 `json:"final_score"`
}

// ScoredCandidate is a candidate with its computed score.
type ScoredCandidate struct {
	Candidate
	Breakdown ScoreBreakdown
}
