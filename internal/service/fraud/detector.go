package fraud

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/geo"
	"service-dispatch/internal/logx"
)

// Risk score weights per unresolved finding. The score saturates at 100 and a
// courier above the block threshold must not receive new assignments.
const (
	criticalWeight    = 25
	highWeight        = 15
	recentWeight      = 10
	maxRiskScore      = 100
	blockThreshold    = 70
	elevatedThreshold = 40
)

// Detector runs the fraud checks and owns the persisted fraud events.
type Detector struct {
	locations   locationSource
	sessions    sessionSource
	events      eventStore
	alerts      alertPublisher
	logger      logx.Logger
	detected    *prometheus.CounterVec
	maxSpeedKmh float64
	geofenceKm  float64
	window      time.Duration
}

// NewDetector - creates a new Detector.
func NewDetector(
	locations locationSource,
	sessions sessionSource,
	events eventStore,
	alerts alertPublisher,
	logger logx.Logger,
	detected *prometheus.CounterVec,
	maxSpeedKmh, geofenceKm float64,
	window time.Duration,
) *Detector {
	if maxSpeedKmh <= 0 {
		maxSpeedKmh = 120
	}
	if geofenceKm <= 0 {
		geofenceKm = 0.05
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &Detector{
		locations:   locations,
		sessions:    sessions,
		events:      events,
		alerts:      alerts,
		logger:      logger,
		detected:    detected,
		maxSpeedKmh: maxSpeedKmh,
		geofenceKm:  geofenceKm,
		window:      window,
	}
}

// CheckTeleportation compares the two most recent history samples and flags
// the courier when the implied speed exceeds the physical ceiling. Fewer than
// two samples is not suspicious.
func (d *Detector) CheckTeleportation(ctx context.Context, courierID int64) (*domain.FraudEvent, error) {
	samples, err := d.locations.History(ctx, courierID, 2)
	if err != nil {
		return nil, err
	}
	if len(samples) < 2 {
		return nil, nil
	}

	newest, prev := samples[0], samples[1]
	elapsed := newest.RecordedAt.Sub(prev.RecordedAt).Seconds()
	if elapsed <= 0 {
		return nil, nil
	}

	dist := geo.RawDistanceKm(prev.Lat, prev.Lng, newest.Lat, newest.Lng)
	speed := dist / (elapsed / 3600)
	if speed <= d.maxSpeedKmh {
		return nil, nil
	}

	e := &domain.FraudEvent{
		CourierID: courierID,
		Type:      domain.FraudTeleportation,
		Severity:  teleportationSeverity(speed),
		Details: domain.TeleportationDetails{
			From:           domain.GeoPoint{Lat: prev.Lat, Lng: prev.Lng, Time: prev.RecordedAt},
			To:             domain.GeoPoint{Lat: newest.Lat, Lng: newest.Lng, Time: newest.RecordedAt},
			DistanceKm:     dist,
			ElapsedSeconds: elapsed,
			SpeedKmh:       speed,
			MaxSpeedKmh:    d.maxSpeedKmh,
		},
	}
	if err := d.record(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// CheckFakeDelivery flags a completion attempt when the courier's current
// position is outside the drop geofence. Unlike the other checks, a failure
// here must surface to the caller so a completion is never waved through on
// missing data.
func (d *Detector) CheckFakeDelivery(ctx context.Context, courierID int64, order *domain.Order) (*domain.FraudEvent, error) {
	pos, err := d.locations.Current(ctx, courierID)
	if err != nil {
		return nil, err
	}

	dist := geo.RawDistanceKm(order.DropLat, order.DropLng, pos.Lat, pos.Lng)
	if dist <= d.geofenceKm {
		return nil, nil
	}

	e := &domain.FraudEvent{
		CourierID: courierID,
		OrderID:   &order.ID,
		Type:      domain.FraudFakeDelivery,
		Severity:  domain.SeverityHigh,
		Details: domain.FakeDeliveryDetails{
			DropPoint:      domain.GeoPoint{Lat: order.DropLat, Lng: order.DropLng},
			CourierPoint:   domain.GeoPoint{Lat: pos.Lat, Lng: pos.Lng, Time: pos.RecordedAt},
			DistanceKm:     dist,
			DistanceMeters: dist * 1000,
			MaxDistanceKm:  d.geofenceKm,
		},
	}
	if err := d.record(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// CheckMultipleLogins flags a courier with more than one active session in
// the lookback window.
func (d *Detector) CheckMultipleLogins(ctx context.Context, courierID int64) (*domain.FraudEvent, error) {
	sessions, err := d.sessions.ActiveSessions(ctx, courierID, d.window)
	if err != nil {
		return nil, err
	}
	if len(sessions) <= 1 {
		return nil, nil
	}

	devices := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		devices[s.DeviceID] = struct{}{}
	}

	severity := domain.SeverityMedium
	if len(devices) > 2 {
		severity = domain.SeverityHigh
	}

	e := &domain.FraudEvent{
		CourierID: courierID,
		Type:      domain.FraudMultipleLogin,
		Severity:  severity,
		Details: domain.MultipleLoginDetails{
			Devices:     sessions,
			DeviceCount: len(devices),
		},
	}
	if err := d.record(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// RunChecks runs the per-courier background checks. Each check degrades to
// "not suspicious" on failure so one broken collaborator does not stall the
// sweep.
func (d *Detector) RunChecks(ctx context.Context, courierID int64) []domain.FraudEvent {
	var out []domain.FraudEvent

	if e, err := d.CheckTeleportation(ctx, courierID); err != nil {
		d.logger.Warn("teleportation check failed",
			logx.Int64("courier_id", courierID),
			logx.Any("err", err),
		)
	} else if e != nil {
		out = append(out, *e)
	}

	if e, err := d.CheckMultipleLogins(ctx, courierID); err != nil {
		d.logger.Warn("multiple login check failed",
			logx.Int64("courier_id", courierID),
			logx.Any("err", err),
		)
	} else if e != nil {
		out = append(out, *e)
	}

	return out
}

// Events lists stored fraud events, newest first.
func (d *Detector) Events(ctx context.Context, f domain.FraudFilter) ([]domain.FraudEvent, error) {
	return d.events.List(ctx, f)
}

// Resolve marks an event reviewed. Resolving twice is refused.
func (d *Detector) Resolve(ctx context.Context, id int64, notes string) error {
	ok, err := d.events.Resolve(ctx, id, notes)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound
	}
	return nil
}

// RiskScore aggregates the courier's unresolved findings into a 0-100 score.
func (d *Detector) RiskScore(ctx context.Context, courierID int64) (domain.RiskScore, error) {
	counts, err := d.events.Counts(ctx, courierID)
	if err != nil {
		return domain.RiskScore{}, err
	}

	score := counts.Critical*criticalWeight + counts.High*highWeight + counts.Recent7d*recentWeight
	if score > maxRiskScore {
		score = maxRiskScore
	}

	return domain.RiskScore{
		CourierID:  courierID,
		Score:      score,
		Level:      riskLevel(score),
		Blocked:    score > blockThreshold,
		Unresolved: counts.Total,
	}, nil
}

func riskLevel(score int64) domain.RiskLevel {
	switch {
	case score > blockThreshold:
		return domain.RiskHigh
	case score > elevatedThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// record persists the event and fans the alert out. A failed alert publish is
// logged but never un-detects the event.
func (d *Detector) record(ctx context.Context, e *domain.FraudEvent) error {
	if err := d.events.Insert(ctx, e); err != nil {
		return err
	}
	d.detected.WithLabelValues(string(e.Type)).Inc()

	d.logger.Warn("fraud detected",
		logx.String("event", "fraud_detected"),
		logx.String("type", string(e.Type)),
		logx.String("severity", string(e.Severity)),
		logx.Int64("courier_id", e.CourierID),
	)

	if err := d.alerts.PublishAlert(ctx, *e); err != nil {
		d.logger.Error("fraud alert publish failed",
			logx.Int64("courier_id", e.CourierID),
			logx.Any("err", err),
		)
	}
	return nil
}

func teleportationSeverity(speedKmh float64) domain.Severity {
	switch {
	case speedKmh > 200:
		return domain.SeverityCritical
	case speedKmh > 150:
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}
