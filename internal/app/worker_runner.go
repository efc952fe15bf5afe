package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/scanner"
	"service-dispatch/internal/transport/kafka"
)

// WorkerRunner runs the telemetry consumer and the periodic fraud sweep
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger logx.Logger,
	consumer *kafka.Consumer,
	producer *kafka.AlertProducer,
	sweeper *scanner.Scanner,
) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}
	defer closeWorker(pool, logger, consumer, producer)

	return runWithSweeper(ctx, logger, consumer, sweeper)
}

type telemetryLoop interface {
	Run(ctx context.Context) error
}

// runWithSweeper keeps the periodic fraud sweep alive for as long as the
// consumer loop runs.
func runWithSweeper(ctx context.Context, logger logx.Logger, loop telemetryLoop, sweeper *scanner.Scanner) error {
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	logger.Info("service-dispatch-worker started")
	return loop.Run(ctx)
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, consumer *kafka.Consumer, producer *kafka.AlertProducer) {
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka consumer close error", logx.Any("err", err))
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", logx.Any("err", err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
