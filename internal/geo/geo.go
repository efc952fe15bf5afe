package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// kmPerLatDegree approximates one degree of latitude at city scale.
const kmPerLatDegree = 111

// DistanceKm returns the great-circle distance between two points via the
// haversine formula, rounded to 2 decimal places.
func DistanceKm(latA, lngA, latB, lngB float64) float64 {
	return math.Round(RawDistanceKm(latA, lngA, latB, lngB)*100) / 100
}

// RawDistanceKm is DistanceKm without rounding. Geofence comparisons at the
// tens-of-meters scale need the full precision.
func RawDistanceKm(latA, lngA, latB, lngB float64) float64 {
	dLat := toRad(latB - latA)
	dLng := toRad(lngB - lngA)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(latA))*math.Cos(toRad(latB))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// BoundingBox is a lat/lng rectangle used as a coarse pre-filter before the
// exact distance check. It is never the authoritative containment test.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// NewBoundingBox returns a box guaranteed to contain every point within
// radiusKm of the center. Longitude degrees shrink with cos(lat).
func NewBoundingBox(lat, lng, radiusKm float64) BoundingBox {
	latDelta := radiusKm / kmPerLatDegree
	lngDelta := radiusKm / (kmPerLatDegree * math.Cos(toRad(lat)))

	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

// Contains reports whether the point falls inside the box.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

func toRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}
