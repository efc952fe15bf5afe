package config_test

import (
	"os"
	"testing"
	"time"

	"service-dispatch/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	oldArgs := os.Args
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	os.Args = []string{oldArgs[0]}
	t.Cleanup(func() {
		pflag.CommandLine = old
		os.Args = oldArgs
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_DB", "REDIS_ADDR", "KAFKA_BROKERS",
		"SEARCH_RADIUS_KM", "WEIGHT_DISTANCE", "WEIGHT_RATING",
		"WEIGHT_EXPERIENCE", "WEIGHT_AVAILABILITY", "LOCATION_TTL_SECONDS",
		"MAX_SPEED_KMPH", "MIN_DELIVERY_GEOFENCE_METERS", "SESSION_WINDOW",
		"SCANNER_INTERVAL", "SCANNER_FRESHNESS_WINDOW", "LOCATION_RETENTION_DAYS",
		"SESSIONS_BASE_URL", "SESSIONS_MAX_ATTEMPTS",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_RATE", "RATE_LIMIT_BURST",
		"RATE_LIMIT_TTL", "RATE_LIMIT_MAX_BUCKETS",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "127.0.0.1", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)

	require.Equal(t, 5.0, cfg.Dispatch.SearchRadiusKm)
	require.Equal(t, 0.50, cfg.Dispatch.Weights.Distance)
	require.Equal(t, 0.25, cfg.Dispatch.Weights.Rating)
	require.Equal(t, 0.15, cfg.Dispatch.Weights.Experience)
	require.Equal(t, 0.10, cfg.Dispatch.Weights.Availability)

	require.Equal(t, 30*time.Second, cfg.Location.LiveTTL)
	require.Equal(t, 120.0, cfg.Fraud.MaxSpeedKmh)
	require.Equal(t, 0.05, cfg.Fraud.GeofenceKm)
	require.Equal(t, 5*time.Minute, cfg.Fraud.SessionWindow)
	require.Equal(t, 60*time.Second, cfg.Scanner.Interval)
	require.Equal(t, 5*time.Minute, cfg.Scanner.Freshness)
	require.Equal(t, 30, cfg.Scanner.RetentionDays)

	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, 5.0, cfg.RateLimit.Rate)
	require.Equal(t, 10, cfg.RateLimit.Burst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("SEARCH_RADIUS_KM", "7.5")
	t.Setenv("WEIGHT_DISTANCE", "0.6")
	t.Setenv("LOCATION_TTL_SECONDS", "45")
	t.Setenv("MAX_SPEED_KMPH", "140")
	t.Setenv("MIN_DELIVERY_GEOFENCE_METERS", "75")
	t.Setenv("SCANNER_INTERVAL", "30s")
	t.Setenv("LOCATION_RETENTION_DAYS", "14")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "db", cfg.DB.Host)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, 7.5, cfg.Dispatch.SearchRadiusKm)
	require.Equal(t, 0.6, cfg.Dispatch.Weights.Distance)
	require.Equal(t, 45*time.Second, cfg.Location.LiveTTL)
	require.Equal(t, 140.0, cfg.Fraud.MaxSpeedKmh)
	require.Equal(t, 0.075, cfg.Fraud.GeofenceKm)
	require.Equal(t, 30*time.Second, cfg.Scanner.Interval)
	require.Equal(t, 14, cfg.Scanner.RetentionDays)
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	t.Setenv("PORT", "70000")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidGeofence(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	t.Setenv("MIN_DELIVERY_GEOFENCE_METERS", "not-a-number")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidScannerInterval(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	t.Setenv("SCANNER_INTERVAL", "bad-interval")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestDB_DSN(t *testing.T) {
	t.Parallel()

	db := config.DB{Host: "h", Port: "5432", User: "u", Pass: "p", Name: "d"}
	require.Equal(t, "postgres://u:p@h:5432/d", db.DSN())
}
