package domain

import "time"

// Position is a single courier telemetry sample. The live value is cached
// with a short TTL; history entries are append-only until retention cleanup.
type Position struct {
	CourierID  int64     `json:"courier_id"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	SpeedKmh   float64   `json:"speed"`
	AccuracyM  float64   `json:"accuracy"`
	RecordedAt time.Time `json:"timestamp"`
}

// ValidCoordinates reports whether lat/lng are inside the WGS84 range.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
