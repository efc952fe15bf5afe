package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for rejected over-limit requests
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}

// NewHistoryWriteFailuresTotal returns a Prometheus counter for failed durable location-history writes
func NewHistoryWriteFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "location_history_write_failures_total",
		Help: "Total number of failed durable location-history writes (swallowed by design)",
	})
}

// NewBroadcastDroppedTotal returns a Prometheus counter for events dropped on slow subscribers
func NewBroadcastDroppedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "broadcast_dropped_events_total",
		Help: "Total number of events dropped because a subscriber buffer was full",
	})
}

// NewFraudEventsTotal returns a Prometheus counter vector for fraud events by type
func NewFraudEventsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fraud_events_total",
		Help: "Total number of fraud events recorded, by type",
	}, []string{"type"})
}

// NewAssignmentsTotal returns a Prometheus counter for created assignments
func NewAssignmentsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignments_created_total",
		Help: "Total number of order assignments created",
	})
}
