package handlers

import "service-dispatch/internal/domain"

func positionToResponse(p domain.Position) positionDTO {
	return positionDTO{
		CourierID: p.CourierID,
		Lat:       p.Lat,
		Lng:       p.Lng,
		Speed:     p.SpeedKmh,
		Accuracy:  p.AccuracyM,
		Timestamp: p.RecordedAt,
	}
}

func positionsToResponse(list []domain.Position) []positionDTO {
	out := make([]positionDTO, 0, len(list))
	for _, p := range list {
		out = append(out, positionToResponse(p))
	}
	return out
}

func assignResultToResponse(res domain.AssignResult) assignResponse {
	return assignResponse{
		AssignmentID: res.AssignmentID,
		OrderID:      res.OrderID,
		CourierID:    res.CourierID,
		Score:        res.Score,
		DistanceKm:   res.DistanceKm,
		AssignedAt:   res.AssignedAt,
	}
}

func candidateToResponse(c domain.ScoredCandidate) candidateDTO {
	return candidateDTO{
		CourierID:       c.ID,
		Name:            c.Name,
		VehicleType:     string(c.VehicleType),
		RatingAvg:       c.RatingAvg,
		TotalDeliveries: c.TotalDeliveries,
		DistanceKm:      c.DistanceKm,
		Score:           c.Breakdown.Final,
		Breakdown:       c.Breakdown,
	}
}

func candidatesToResponse(list []domain.ScoredCandidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(list))
	for _, c := range list {
		out = append(out, candidateToResponse(c))
	}
	return out
}

func fraudEventToResponse(e domain.FraudEvent) fraudEventDTO {
	return fraudEventDTO{
		ID:              e.ID,
		CourierID:       e.CourierID,
		OrderID:         e.OrderID,
		Type:            string(e.Type),
		Severity:        string(e.Severity),
		Details:         e.Details,
		Resolved:        e.Resolved,
		ResolutionNotes: e.ResolutionNotes,
		ResolvedAt:      e.ResolvedAt,
		CreatedAt:       e.CreatedAt,
	}
}

func fraudEventsToResponse(list []domain.FraudEvent) []fraudEventDTO {
	out := make([]fraudEventDTO, 0, len(list))
	for _, e := range list {
		out = append(out, fraudEventToResponse(e))
	}
	return out
}
