package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores PostgreSQL connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Redis stores the live-position cache settings.
type Redis struct {
	Addr string
}

// Kafka stores broker and topic settings for the telemetry consumer and the
// fraud alert producer. Empty brokers disable the kafka transport.
type Kafka struct {
	Brokers        []string
	TelemetryTopic string
	AlertTopic     string
	Group          string
}

// Weights are the scoring weights. They are not normalized: the final score
// is a plain weighted sum.
type Weights struct {
	Distance     float64
	Rating       float64
	Experience   float64
	Availability float64
}

// Dispatch stores candidate search and scoring settings.
type Dispatch struct {
	SearchRadiusKm float64
	Weights        Weights
}

// Location stores the live-cache settings.
type Location struct {
	LiveTTL time.Duration
}

// Fraud stores detection thresholds.
type Fraud struct {
	MaxSpeedKmh   float64
	GeofenceKm    float64
	SessionWindow time.Duration
}

// Scanner stores the periodic sweep settings.
type Scanner struct {
	Interval      time.Duration
	Freshness     time.Duration
	RetentionDays int
}

// RateLimit stores per-courier token bucket settings for the telemetry
// ingestion endpoint.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores the debug profiling server settings. Disabled by default;
// non-loopback access requires basic auth.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Sessions stores the session collaborator gateway settings.
type Sessions struct {
	BaseURL     string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Config stores all service settings.
type Config struct {
	Port      int
	DB        DB
	Redis     Redis
	Kafka     Kafka
	Dispatch  Dispatch
	Location  Location
	Fraud     Fraud
	Scanner   Scanner
	Sessions  Sessions
	RateLimit RateLimit
	Pprof     Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      defaultPort,
		DB:        DefaultDB(),
		Redis:     DefaultRedis(),
		Kafka:     DefaultKafka(),
		Dispatch:  DefaultDispatch(),
		Location:  DefaultLocation(),
		Fraud:     DefaultFraud(),
		Scanner:   DefaultScanner(),
		Sessions:  DefaultSessions(),
		RateLimit: DefaultRateLimit(),
		Pprof:     DefaultPprof(),
	}

	var err error
	readEnv := func(name string, apply func(string) error) {
		if err != nil {
			return
		}
		v := os.Getenv(name)
		if v == "" {
			return
		}
		if applyErr := apply(v); applyErr != nil {
			err = fmt.Errorf("env %s: %w", name, applyErr)
		}
	}

	readEnv("PORT", intVar(&cfg.Port))
	readEnv("POSTGRES_HOST", stringVar(&cfg.DB.Host))
	readEnv("POSTGRES_PORT", portVar(&cfg.DB.Port))
	readEnv("POSTGRES_USER", stringVar(&cfg.DB.User))
	readEnv("POSTGRES_PASSWORD", stringVar(&cfg.DB.Pass))
	readEnv("POSTGRES_DB", stringVar(&cfg.DB.Name))
	readEnv("REDIS_ADDR", stringVar(&cfg.Redis.Addr))
	readEnv("KAFKA_BROKERS", listVar(&cfg.Kafka.Brokers))
	readEnv("KAFKA_TELEMETRY_TOPIC", stringVar(&cfg.Kafka.TelemetryTopic))
	readEnv("KAFKA_ALERT_TOPIC", stringVar(&cfg.Kafka.AlertTopic))
	readEnv("KAFKA_GROUP", stringVar(&cfg.Kafka.Group))
	readEnv("SEARCH_RADIUS_KM", floatVar(&cfg.Dispatch.SearchRadiusKm))
	readEnv("WEIGHT_DISTANCE", floatVar(&cfg.Dispatch.Weights.Distance))
	readEnv("WEIGHT_RATING", floatVar(&cfg.Dispatch.Weights.Rating))
	readEnv("WEIGHT_EXPERIENCE", floatVar(&cfg.Dispatch.Weights.Experience))
	readEnv("WEIGHT_AVAILABILITY", floatVar(&cfg.Dispatch.Weights.Availability))
	readEnv("LOCATION_TTL_SECONDS", secondsVar(&cfg.Location.LiveTTL))
	readEnv("MAX_SPEED_KMPH", floatVar(&cfg.Fraud.MaxSpeedKmh))
	readEnv("MIN_DELIVERY_GEOFENCE_METERS", metersToKmVar(&cfg.Fraud.GeofenceKm))
	readEnv("SESSION_WINDOW", durationVar(&cfg.Fraud.SessionWindow))
	readEnv("SCANNER_INTERVAL", durationVar(&cfg.Scanner.Interval))
	readEnv("SCANNER_FRESHNESS_WINDOW", durationVar(&cfg.Scanner.Freshness))
	readEnv("LOCATION_RETENTION_DAYS", intVar(&cfg.Scanner.RetentionDays))
	readEnv("SESSIONS_BASE_URL", stringVar(&cfg.Sessions.BaseURL))
	readEnv("SESSIONS_MAX_ATTEMPTS", intVar(&cfg.Sessions.MaxAttempts))
	readEnv("RATE_LIMIT_ENABLED", boolVar(&cfg.RateLimit.Enabled))
	readEnv("RATE_LIMIT_RATE", floatVar(&cfg.RateLimit.Rate))
	readEnv("RATE_LIMIT_BURST", intVar(&cfg.RateLimit.Burst))
	readEnv("RATE_LIMIT_TTL", durationVar(&cfg.RateLimit.TTL))
	readEnv("RATE_LIMIT_MAX_BUCKETS", intVar(&cfg.RateLimit.MaxBuckets))
	readEnv("PPROF_ENABLED", boolVar(&cfg.Pprof.Enabled))
	readEnv("PPROF_ADDR", stringVar(&cfg.Pprof.Addr))
	readEnv("PPROF_USER", stringVar(&cfg.Pprof.User))
	readEnv("PPROF_PASSWORD", stringVar(&cfg.Pprof.Pass))
	if err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	if parseErr := pflag.CommandLine.Parse(os.Args[1:]); parseErr != nil {
		return nil, fmt.Errorf("parse flags: %w", parseErr)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Dispatch.SearchRadiusKm <= 0 {
		return fmt.Errorf("invalid search radius: %v", c.Dispatch.SearchRadiusKm)
	}
	if c.Location.LiveTTL <= 0 {
		return fmt.Errorf("invalid live cache TTL: %v", c.Location.LiveTTL)
	}
	if c.Fraud.MaxSpeedKmh <= 0 {
		return fmt.Errorf("invalid max speed: %v", c.Fraud.MaxSpeedKmh)
	}
	if c.Fraud.GeofenceKm <= 0 {
		return fmt.Errorf("invalid geofence radius: %v", c.Fraud.GeofenceKm)
	}
	if c.Scanner.Interval <= 0 || c.Scanner.Freshness <= 0 {
		return fmt.Errorf("invalid scanner settings: interval=%v freshness=%v",
			c.Scanner.Interval, c.Scanner.Freshness)
	}
	if c.Scanner.RetentionDays <= 0 {
		return fmt.Errorf("invalid retention days: %d", c.Scanner.RetentionDays)
	}
	return nil
}

func stringVar(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func intVar(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func boolVar(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func floatVar(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

func durationVar(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

// secondsVar parses a bare number of seconds (LOCATION_TTL_SECONDS=30).
func secondsVar(dst *time.Duration) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = time.Duration(n) * time.Second
		return nil
	}
}

// metersToKmVar parses meters into kilometers; the geofence is configured in
// meters but compared in kilometers internally.
func metersToKmVar(dst *float64) func(string) error {
	return func(v string) error {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = m / 1000
		return nil
	}
}

func listVar(dst *[]string) func(string) error {
	return func(v string) error {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
		return nil
	}
}

func portVar(dst *string) func(string) error {
	return func(v string) error {
		if _, err := strconv.Atoi(v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}
