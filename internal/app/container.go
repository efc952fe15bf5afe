package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-dispatch/internal/broadcast"
	"service-dispatch/internal/cache"
	"service-dispatch/internal/config"
	"service-dispatch/internal/gateway/sessions"
	"service-dispatch/internal/http/handlers"
	"service-dispatch/internal/http/router"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/dispatch"
	"service-dispatch/internal/service/fraud"
	"service-dispatch/internal/service/location"
	"service-dispatch/internal/service/scanner"
	"service-dispatch/internal/service/telemetry"
	"service-dispatch/internal/transport/kafka"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := container.Provide(provideMetrics); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerKafka(container); err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the container for the worker binary. The
// worker consumes telemetry from Kafka and never serves HTTP.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	b := NewContainerBuilder()
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := container.Provide(provideMetrics); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerKafka(container); err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	return container, nil
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, logger logx.Logger, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type locationStoreIn struct {
	dig.In
	Cache         *cache.RedisLiveCache
	History       *repository.LocationHistoryRepo
	Logger        logx.Logger
	WriteFailures prometheus.Counter `name:"location_history_write_failures_total"`
}

type coordinatorIn struct {
	dig.In
	Orders   *repository.OrderRepo
	Locator  *dispatch.Locator
	Dispatch *repository.DispatchRepo
	Guard    *fraud.Detector
	Config   *config.Config
	Logger   logx.Logger
	Created  prometheus.Counter `name:"assignments_created_total"`
}

type detectorIn struct {
	dig.In
	Locations *location.Store
	Sessions  *sessions.RetryingGateway
	Events    *repository.FraudRepo
	Alerts    *kafka.AlertProducer
	Config    *config.Config
	Logger    logx.Logger
	Detected  *prometheus.CounterVec
}

type sessionsGatewayIn struct {
	dig.In
	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

type broadcasterIn struct {
	dig.In
	Dropped prometheus.Counter `name:"broadcast_dropped_events_total"`
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		repository.NewCourierRepo,
		repository.NewOrderRepo,
		repository.NewDispatchRepo,
		repository.NewLocationHistoryRepo,
		repository.NewFraudRepo,
		func(cfg *config.Config) *redis.Client {
			return redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		},
		func(client *redis.Client, cfg *config.Config) *cache.RedisLiveCache {
			return cache.NewRedisLiveCache(client, cfg.Location.LiveTTL)
		},
		func(in locationStoreIn) *location.Store {
			return location.NewStore(in.Cache, in.History, in.Logger, in.WriteFailures)
		},
		func(couriers *repository.CourierRepo, cfg *config.Config) *dispatch.Locator {
			return dispatch.NewLocator(couriers, cfg.Dispatch.SearchRadiusKm, cfg.Scanner.Freshness)
		},
		func(in coordinatorIn) *dispatch.Coordinator {
			w := in.Config.Dispatch.Weights
			return dispatch.NewCoordinator(
				in.Orders,
				in.Locator,
				in.Dispatch,
				in.Dispatch,
				in.Guard,
				dispatch.Weights{
					Distance:     w.Distance,
					Rating:       w.Rating,
					Experience:   w.Experience,
					Availability: w.Availability,
				},
				in.Logger,
				in.Created,
				3*time.Second,
			)
		},
		func(in sessionsGatewayIn) *sessions.RetryingGateway {
			base := sessions.NewHTTPGateway(in.Config.Sessions.BaseURL, nil)
			return sessions.NewRetryingGateway(base, in.Logger, in.Retries, sessions.RetryConfig{
				MaxAttempts: in.Config.Sessions.MaxAttempts,
				BaseDelay:   in.Config.Sessions.BaseDelay,
				MaxDelay:    in.Config.Sessions.MaxDelay,
			})
		},
		func(in detectorIn) *fraud.Detector {
			return fraud.NewDetector(
				in.Locations,
				in.Sessions,
				in.Events,
				in.Alerts,
				in.Logger,
				in.Detected,
				in.Config.Fraud.MaxSpeedKmh,
				in.Config.Fraud.GeofenceKm,
				in.Config.Fraud.SessionWindow,
			)
		},
		func(in broadcasterIn) *broadcast.Broadcaster {
			return broadcast.New(0, in.Dropped)
		},
		func(store *location.Store, detector *fraud.Detector, events *broadcast.Broadcaster, logger logx.Logger) *telemetry.Ingestor {
			return telemetry.NewIngestor(store, detector, events, logger)
		},
		func(couriers *repository.CourierRepo, detector *fraud.Detector, store *location.Store, cfg *config.Config, logger logx.Logger) *scanner.Scanner {
			return scanner.New(
				couriers,
				detector,
				store,
				logger,
				cfg.Scanner.Interval,
				cfg.Scanner.Freshness,
				cfg.Scanner.RetentionDays,
			)
		},
	)
}

func registerKafka(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) (*kafka.AlertProducer, error) {
			return kafka.NewAlertProducer(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
		},
		func(cfg *config.Config, logger logx.Logger, ingestor *telemetry.Ingestor) (*kafka.Consumer, error) {
			return kafka.NewConsumer(
				logger,
				cfg.Kafka.Brokers,
				cfg.Kafka.Group,
				cfg.Kafka.TelemetryTopic,
				makeTelemetryKafka(ingestor),
			)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewDispatchUsecase,
		handlers.NewDispatchHandler,
		handlers.NewLocationUsecase,
		handlers.NewTelemetryUsecase,
		handlers.NewLocationHandler,
		handlers.NewFraudUsecase,
		handlers.NewFraudHandler,
		newRateLimitClock,
		newRateLimitMiddleware,
		newRateLimiter,
		router.New,
		serverProvider,
		providePprofServer,
	)
}
