package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

type courierLister interface {
	ListActiveWithFreshPositions(ctx context.Context, freshness time.Duration) ([]int64, error)
}

type checker interface {
	RunChecks(ctx context.Context, courierID int64) []domain.FraudEvent
}

type historyCleaner interface {
	CleanupOlderThan(ctx context.Context, days int) (int64, error)
}

// Scanner periodically sweeps recently active couriers through the fraud
// checks and prunes old location history once a day. A sweep that is still
// running when the next tick fires makes the tick a no-op instead of stacking
// a second sweep.
type Scanner struct {
	couriers      courierLister
	fraud         checker
	history       historyCleaner
	logger        logx.Logger
	cron          *cron.Cron
	interval      time.Duration
	freshness     time.Duration
	retentionDays int
}

// New - creates a new Scanner.
func New(
	couriers courierLister,
	fraud checker,
	history historyCleaner,
	logger logx.Logger,
	interval, freshness time.Duration,
	retentionDays int,
) *Scanner {
	if interval <= 0 {
		interval = time.Minute
	}
	if freshness <= 0 {
		freshness = 5 * time.Minute
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &Scanner{
		couriers:      couriers,
		fraud:         fraud,
		history:       history,
		logger:        logger,
		cron:          cron.New(cron.WithSeconds()),
		interval:      interval,
		freshness:     freshness,
		retentionDays: retentionDays,
	}
}

// Start registers the sweep and the daily cleanup and starts the scheduler.
func (s *Scanner) Start() error {
	sweepSpec := fmt.Sprintf("@every %s", s.interval)
	skip := cron.SkipIfStillRunning(cron.DiscardLogger)

	_, err := s.cron.AddJob(sweepSpec, skip(cron.FuncJob(func() {
		s.Sweep(context.Background())
	})))
	if err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	// daily at 02:00
	_, err = s.cron.AddJob("0 0 2 * * *", skip(cron.FuncJob(func() {
		s.Cleanup(context.Background())
	})))
	if err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.logger.Info("fraud scanner started",
		logx.String("interval", s.interval.String()),
		logx.Int("retention_days", s.retentionDays),
	)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Scanner) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("fraud scanner stopped")
}

// Sweep runs the background fraud checks over every recently active courier.
// Check failures are degraded inside the detector, so one courier cannot
// abort the rest of the sweep.
func (s *Scanner) Sweep(ctx context.Context) {
	started := time.Now()

	ids, err := s.couriers.ListActiveWithFreshPositions(ctx, s.freshness)
	if err != nil {
		s.logger.Error("scan sweep failed", logx.Any("err", err))
		return
	}

	flagged := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		flagged += len(s.fraud.RunChecks(ctx, id))
	}

	s.logger.Info("scan sweep finished",
		logx.Int("couriers", len(ids)),
		logx.Int("flagged", flagged),
		logx.String("took", time.Since(started).String()),
	)
}

// Cleanup prunes location history beyond the retention window.
func (s *Scanner) Cleanup(ctx context.Context) {
	removed, err := s.history.CleanupOlderThan(ctx, s.retentionDays)
	if err != nil {
		s.logger.Error("history cleanup failed", logx.Any("err", err))
		return
	}
	s.logger.Info("history cleanup finished",
		logx.Int("retention_days", s.retentionDays),
		logx.Int64("removed", removed),
	)
}
