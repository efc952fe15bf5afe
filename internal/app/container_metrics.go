package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-dispatch/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal prometheus.Counter `name:"rate_limit_exceeded_total"`
	GatewayRetriesTotal    prometheus.Counter `name:"gateway_retries_total"`
	HistoryWriteFailures   prometheus.Counter `name:"location_history_write_failures_total"`
	BroadcastDroppedTotal  prometheus.Counter `name:"broadcast_dropped_events_total"`
	AssignmentsTotal       prometheus.Counter `name:"assignments_created_total"`
	FraudEventsTotal       *prometheus.CounterVec
}

// provideMetrics registers the service collectors on the default registerer.
// A collector that is already registered (container rebuilt in-process) is
// reused instead of failing the build.
func provideMetrics() (metricsOut, error) {
	rateLimit, err := registerCounter(metrics.NewRateLimitExceededTotal(), "rate_limit_exceeded_total")
	if err != nil {
		return metricsOut{}, err
	}
	gatewayRetries, err := registerCounter(metrics.NewGatewayRetriesTotal(), "gateway_retries_total")
	if err != nil {
		return metricsOut{}, err
	}
	historyFailures, err := registerCounter(metrics.NewHistoryWriteFailuresTotal(), "location_history_write_failures_total")
	if err != nil {
		return metricsOut{}, err
	}
	broadcastDropped, err := registerCounter(metrics.NewBroadcastDroppedTotal(), "broadcast_dropped_events_total")
	if err != nil {
		return metricsOut{}, err
	}
	assignments, err := registerCounter(metrics.NewAssignmentsTotal(), "assignments_created_total")
	if err != nil {
		return metricsOut{}, err
	}
	fraudEvents, err := registerCounterVec(metrics.NewFraudEventsTotal(), "fraud_events_total")
	if err != nil {
		return metricsOut{}, err
	}

	return metricsOut{
		RateLimitExceededTotal: rateLimit,
		GatewayRetriesTotal:    gatewayRetries,
		HistoryWriteFailures:   historyFailures,
		BroadcastDroppedTotal:  broadcastDropped,
		AssignmentsTotal:       assignments,
		FraudEventsTotal:       fraudEvents,
	}, nil
}

func registerCounter(c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := prometheus.DefaultRegisterer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}

func registerCounterVec(c *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := prometheus.DefaultRegisterer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}
