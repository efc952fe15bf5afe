package sessions

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"service-dispatch/internal/domain"
	testlog "service-dispatch/internal/testutil"
)

type fakeGateway struct {
	fn func(context.Context, int64, time.Duration) ([]domain.DeviceSession, error)
}

func (f *fakeGateway) ActiveSessions(ctx context.Context, courierID int64, window time.Duration) ([]domain.DeviceSession, error) {
	return f.fn(ctx, courierID, window)
}

type counterStub struct{ n int64 }

func (c *counterStub) Inc() { atomic.AddInt64(&c.n, 1) }
func (c *counterStub) Count() int64 {
	return atomic.LoadInt64(&c.n)
}

func TestRetryingGateway_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()

	var calls int32
	next := &fakeGateway{
		fn: func(context.Context, int64, time.Duration) ([]domain.DeviceSession, error) {
			switch atomic.AddInt32(&calls, 1) {
			case 1, 2:
				return nil, StatusError{Code: http.StatusServiceUnavailable}
			default:
				return []domain.DeviceSession{{DeviceID: "d1"}}, nil
			}
		},
	}
	ctr := &counterStub{}
	cfg := RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   0,
		MaxDelay:    0,
	}
	g := NewRetryingGateway(next, rec.Logger(), ctr, cfg)
	if g == nil {
		t.Fatalf("expected non-nil gw")
	}
	got, err := g.ActiveSessions(context.Background(), 7, time.Minute)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].DeviceID != "d1" {
		t.Fatalf("unexpected sessions: %#v", got)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if ctr.Count() != 2 {
		t.Fatalf("expected 2 retries, got %d", ctr.Count())
	}
}

func TestRetryingGateway_NoRetryOnNonRetryable(t *testing.T) {
	t.Parallel()

	rec := testlog.New()

	var calls int32
	next := &fakeGateway{
		fn: func(context.Context, int64, time.Duration) ([]domain.DeviceSession, error) {
			atomic.AddInt32(&calls, 1)
			return nil, StatusError{Code: http.StatusNotFound}
		},
	}

	ctr := &counterStub{}
	cfg := RetryConfig{MaxAttempts: 5, BaseDelay: 0, MaxDelay: 0}

	g := NewRetryingGateway(next, rec.Logger(), ctr, cfg)

	_, err := g.ActiveSessions(context.Background(), 7, time.Minute)
	if err == nil {
		t.Fatal("expected error")
	}

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if ctr.Count() != 0 {
		t.Fatalf("expected 0 retries, got %d", ctr.Count())
	}
}

func TestRetryingGateway_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	rec := testlog.New()

	var calls int32
	sentinel := StatusError{Code: http.StatusTooManyRequests}
	next := &fakeGateway{
		fn: func(context.Context, int64, time.Duration) ([]domain.DeviceSession, error) {
			atomic.AddInt32(&calls, 1)
			return nil, sentinel
		},
	}
	cfg := RetryConfig{MaxAttempts: 3, BaseDelay: 0, MaxDelay: 0}
	g := NewRetryingGateway(next, rec.Logger(), nil, cfg)

	_, err := g.ActiveSessions(context.Background(), 7, time.Minute)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestNewRetryingGateway_NilNext(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	if g := NewRetryingGateway(nil, rec.Logger(), nil, RetryConfig{}); g != nil {
		t.Fatal("expected nil gateway")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"throttled", StatusError{Code: http.StatusTooManyRequests}, true},
		{"server error", StatusError{Code: http.StatusInternalServerError}, true},
		{"bad request", StatusError{Code: http.StatusBadRequest}, false},
		{"not found", StatusError{Code: http.StatusNotFound}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isRetryable(tc.err); got != tc.want {
				t.Fatalf("isRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
