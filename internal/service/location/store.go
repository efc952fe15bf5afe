package location

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

// Store is the two-tier position store. The cache tier is authoritative for
// reads of the current position; the history tier is the durable trail used
// for fraud analysis and candidate search.
type Store struct {
	cache         liveCache
	history       historyRepository
	logger        logx.Logger
	writeFailures prometheus.Counter
	now           func() time.Time
}

// NewStore - creates a new location Store.
func NewStore(cache liveCache, history historyRepository, logger logx.Logger, writeFailures prometheus.Counter) *Store {
	return &Store{
		cache:         cache,
		history:       history,
		logger:        logger,
		writeFailures: writeFailures,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Update records a new position sample. The cache write must succeed for the
// update to count; a failed history append is logged and counted but does not
// fail the update, so the current position stays readable while the trail
// self-heals on the next successful sample.
func (s *Store) Update(ctx context.Context, p domain.Position) error {
	if p.CourierID <= 0 || !domain.ValidCoordinates(p.Lat, p.Lng) {
		return apperr.Invalid
	}
	if p.RecordedAt.IsZero() {
		p.RecordedAt = s.now()
	}

	if err := s.cache.SetLive(ctx, &p); err != nil {
		return fmt.Errorf("%w: live cache write: %s", apperr.Unavailable, err.Error())
	}

	if err := s.history.Insert(ctx, &p); err != nil {
		s.writeFailures.Inc()
		s.logger.Error("location history write failed",
			logx.Int64("courier_id", p.CourierID),
			logx.Any("err", err),
		)
	}

	return nil
}

// Current returns the freshest known position, preferring the cache tier and
// falling back to the newest history sample when the cache entry has expired.
func (s *Store) Current(ctx context.Context, courierID int64) (*domain.Position, error) {
	if courierID <= 0 {
		return nil, apperr.Invalid
	}

	p, err := s.cache.GetLive(ctx, courierID)
	if err != nil {
		// a cache outage must not hide a position the trail still has
		s.logger.Warn("live cache read failed",
			logx.Int64("courier_id", courierID),
			logx.Any("err", err),
		)
	}
	if p != nil {
		return p, nil
	}

	recent, err := s.history.Recent(ctx, courierID, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, apperr.UnknownLocation
	}
	return &recent[0], nil
}

// History returns up to limit samples for the courier, newest first.
func (s *Store) History(ctx context.Context, courierID int64, limit int) ([]domain.Position, error) {
	if courierID <= 0 {
		return nil, apperr.Invalid
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.history.Recent(ctx, courierID, limit)
}

// CleanupOlderThan drops history samples older than the retention window and
// returns the number of removed rows.
func (s *Store) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, apperr.Invalid
	}
	return s.history.DeleteOlderThan(ctx, days)
}
