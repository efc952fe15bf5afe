package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "dispatch",
	Pass: "dispatch",
	Name: "dispatch_db",
}

var defaultRedis = Redis{
	Addr: "127.0.0.1:6379",
}

var defaultKafka = Kafka{
	TelemetryTopic: "courier.telemetry",
	AlertTopic:     "fraud.alerts",
	Group:          "service-dispatch",
}

var defaultDispatch = Dispatch{
	SearchRadiusKm: 5,
	Weights: Weights{
		Distance:     0.50,
		Rating:       0.25,
		Experience:   0.15,
		Availability: 0.10,
	},
}

var defaultLocation = Location{
	LiveTTL: 30 * time.Second,
}

var defaultFraud = Fraud{
	MaxSpeedKmh:   120,
	GeofenceKm:    0.05,
	SessionWindow: 5 * time.Minute,
}

var defaultScanner = Scanner{
	Interval:      60 * time.Second,
	Freshness:     5 * time.Minute,
	RetentionDays: 30,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        10 * time.Minute,
	MaxBuckets: 100000,
}

var defaultPprof = Pprof{
	Enabled: false,
	Addr:    "127.0.0.1:6060",
}

var defaultSessions = Sessions{
	BaseURL:     "http://localhost:8090",
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    200 * time.Millisecond,
}

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultRedis returns the default redis settings.
func DefaultRedis() Redis { return defaultRedis }

// DefaultKafka returns the default kafka settings.
func DefaultKafka() Kafka { return defaultKafka }

// DefaultDispatch returns the default dispatch settings.
func DefaultDispatch() Dispatch { return defaultDispatch }

// DefaultLocation returns the default live-cache settings.
func DefaultLocation() Location { return defaultLocation }

// DefaultFraud returns the default fraud thresholds.
func DefaultFraud() Fraud { return defaultFraud }

// DefaultScanner returns the default scanner settings.
func DefaultScanner() Scanner { return defaultScanner }

// DefaultSessions returns the default sessions gateway settings.
func DefaultSessions() Sessions { return defaultSessions }

// DefaultRateLimit returns the default telemetry rate limit settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }

// DefaultPprof returns the default pprof server settings.
func DefaultPprof() Pprof { return defaultPprof }
