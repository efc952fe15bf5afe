package domain

import "time"

type (
	// FraudType represents the kind of fraud finding.
	FraudType string
	// Severity represents how serious a fraud finding is.
	Severity string
)

// List of possible fraud event types
const (
	FraudTeleportation FraudType = "teleportation"
	FraudFakeDelivery  FraudType = "fake_delivery"
	FraudMultipleLogin FraudType = "multiple_login"
)

// List of possible severities
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// GeoPoint is a timestamped coordinate pair inside fraud detail payloads.
type GeoPoint struct {
	Lat  float64   `json:"lat"`
	Lng  float64   `json:"lng"`
	Time time.Time `json:"time"`
}

// FraudDetails is the tagged union of per-type detail payloads. Each fraud
// type carries a fixed shape instead of a free-form blob.
type FraudDetails interface {
	FraudType() FraudType
}

// TeleportationDetails describes a physically impossible move between the two
// most recent history samples.
type TeleportationDetails struct {
	From           GeoPoint `json:"from"`
	To             GeoPoint `json:"to"`
	DistanceKm     float64  `json:"distance_km"`
	ElapsedSeconds float64  `json:"time_seconds"`
	SpeedKmh       float64  `json:"calculated_speed_kmph"`
	MaxSpeedKmh    float64  `json:"max_allowed_speed"`
}

// FraudType implements FraudDetails.
func (TeleportationDetails) FraudType() FraudType { return FraudTeleportation }

// FakeDeliveryDetails describes a delivery-completion attempt outside the
// drop-point geofence.
type FakeDeliveryDetails struct {
	DropPoint      GeoPoint `json:"drop_location"`
	CourierPoint   GeoPoint `json:"courier_location"`
	DistanceKm     float64  `json:"distance_km"`
	DistanceMeters float64  `json:"distance_meters"`
	MaxDistanceKm  float64  `json:"max_allowed_km"`
}

// FraudType implements FraudDetails.
func (FakeDeliveryDetails) FraudType() FraudType { return FraudFakeDelivery }

// MultipleLoginDetails describes concurrent active device sessions.
type MultipleLoginDetails struct {
	Devices     []DeviceSession `json:"devices"`
	DeviceCount int             `json:"device_count"`
}

// FraudType implements FraudDetails.
func (MultipleLoginDetails) FraudType() FraudType { return FraudMultipleLogin }

// RiskLevel tiers a risk score for operator dashboards.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskScore is the aggregate view over a courier's unresolved findings.
type RiskScore struct {
	CourierID  int64     `json:"courier_id"`
	Score      int64     `json:"score"`
	Level      RiskLevel `json:"risk_level"`
	Blocked    bool      `json:"blocked"`
	Unresolved int64     `json:"unresolved_events"`
}

// FraudEvent is immutable after creation except for the resolution fields,
// which an administrative reviewer sets exactly once.
type FraudEvent struct {
	ID              int64
	CourierID       int64
	OrderID         *string
	Type            FraudType
	Severity        Severity
	Details         FraudDetails
	Resolved        bool
	ResolutionNotes *string
	ResolvedAt      *time.Time
	CreatedAt       time.Time
}

// FraudFilter narrows event listings. Zero values mean "no filter".
type FraudFilter struct {
	CourierID int64
	Type      FraudType
	Resolved  *bool
	Limit     int
}

// SeverityCounts is the per-courier unresolved aggregate behind RiskScore.
type SeverityCounts struct {
	Critical int64
	High     int64
	Recent7d int64
	Total    int64
}
