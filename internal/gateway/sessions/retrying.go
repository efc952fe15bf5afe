package sessions

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

type gateway interface {
	ActiveSessions(ctx context.Context, courierID int64, window time.Duration) ([]domain.DeviceSession, error)
}

type counter interface {
	Inc()
}

// RetryConfig describes the retry behavior of RetryingGateway.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGateway retries transient sessions service failures with
// exponential backoff.
type RetryingGateway struct {
	next    gateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(time.Duration)
}

// NewRetryingGateway wraps next with retries; returns nil when next is nil.
func NewRetryingGateway(next gateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg, sleep: time.Sleep}
}

// ActiveSessions delegates to the wrapped gateway, retrying retryable errors.
func (g *RetryingGateway) ActiveSessions(ctx context.Context, courierID int64, window time.Duration) ([]domain.DeviceSession, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		sessions, err := g.next.ActiveSessions(ctx, courierID, window)
		if err == nil {
			return sessions, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("sessions gateway retry",
			logx.String("method", "ActiveSessions"),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Any("err", err),
		)
		if !sleepWithContext(ctx, g.sleep, delay) {
			break
		}
	}
	return nil, lastErr
}

// isRetryable reports whether the call may succeed on another attempt.
// Transport errors, timeouts, throttling and server-side failures qualify; a
// well-formed 4xx does not.
func isRetryable(err error) bool {
	var st StatusError
	if errors.As(err, &st) {
		return st.Code == http.StatusTooManyRequests || st.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// backoff computes the delay before the next attempt.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
