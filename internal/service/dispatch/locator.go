package dispatch

import (
	"context"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/geo"
)

// Locator finds available couriers near a point. The bounding box narrows the
// query server-side; the exact haversine distance decides membership.
type Locator struct {
	couriers  courierFinder
	radiusKm  float64
	freshness time.Duration
}

// NewLocator - creates a new Locator.
func NewLocator(couriers courierFinder, radiusKm float64, freshness time.Duration) *Locator {
	if radiusKm <= 0 {
		radiusKm = 5
	}
	if freshness <= 0 {
		freshness = 5 * time.Minute
	}
	return &Locator{couriers: couriers, radiusKm: radiusKm, freshness: freshness}
}

// Nearby returns available couriers within the search radius of the point,
// each annotated with its exact distance. An empty result is not an error.
func (l *Locator) Nearby(ctx context.Context, lat, lng float64) ([]domain.Candidate, error) {
	box := geo.NewBoundingBox(lat, lng, l.radiusKm)

	rows, err := l.couriers.FindAvailableInBox(ctx, box, l.freshness)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Candidate, 0, len(rows))
	for _, c := range rows {
		d := geo.DistanceKm(lat, lng, c.Lat, c.Lng)
		if d > l.radiusKm {
			// box corners stick out past the radius
			continue
		}
		c.DistanceKm = d
		out = append(out, c)
	}
	return out, nil
}
