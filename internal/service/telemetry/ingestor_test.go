package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/broadcast"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/telemetry"
)

type stubStore struct {
	fn func(context.Context, domain.Position) error
}

func (s *stubStore) Update(ctx context.Context, p domain.Position) error {
	if s.fn == nil {
		return nil
	}
	return s.fn(ctx, p)
}

type stubChecker struct {
	fn func(context.Context, int64) (*domain.FraudEvent, error)
}

func (s *stubChecker) CheckTeleportation(ctx context.Context, courierID int64) (*domain.FraudEvent, error) {
	if s.fn == nil {
		return nil, nil
	}
	return s.fn(ctx, courierID)
}

type recordingPublisher struct {
	published []broadcast.Message
}

func (r *recordingPublisher) Publish(topic string, payload any) int {
	r.published = append(r.published, broadcast.Message{Topic: topic, Payload: payload})
	return 1
}

func sample() domain.Position {
	return domain.Position{CourierID: 7, Lat: 55.75, Lng: 37.61, RecordedAt: time.Now().UTC()}
}

func TestIngestor_StoresAndBroadcasts(t *testing.T) {
	t.Parallel()

	var stored *domain.Position
	store := &stubStore{fn: func(_ context.Context, p domain.Position) error {
		stored = &p
		return nil
	}}
	pub := &recordingPublisher{}
	ing := telemetry.NewIngestor(store, &stubChecker{}, pub, logx.Nop())

	err := ing.Ingest(context.Background(), sample())
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, pub.published, 1)
	require.Equal(t, broadcast.TopicLocationUpdated, pub.published[0].Topic)
}

func TestIngestor_StoreFailureFailsIngest(t *testing.T) {
	t.Parallel()

	store := &stubStore{fn: func(context.Context, domain.Position) error {
		return apperr.Unavailable
	}}
	pub := &recordingPublisher{}
	ing := telemetry.NewIngestor(store, &stubChecker{}, pub, logx.Nop())

	err := ing.Ingest(context.Background(), sample())
	require.ErrorIs(t, err, apperr.Unavailable)
	require.Empty(t, pub.published)
}

func TestIngestor_TeleportationEmitsAlert(t *testing.T) {
	t.Parallel()

	checker := &stubChecker{fn: func(_ context.Context, courierID int64) (*domain.FraudEvent, error) {
		return &domain.FraudEvent{CourierID: courierID, Type: domain.FraudTeleportation, Severity: domain.SeverityCritical}, nil
	}}
	pub := &recordingPublisher{}
	ing := telemetry.NewIngestor(&stubStore{}, checker, pub, logx.Nop())

	err := ing.Ingest(context.Background(), sample())
	require.NoError(t, err)
	require.Len(t, pub.published, 2)
	require.Equal(t, broadcast.TopicLocationUpdated, pub.published[0].Topic)
	require.Equal(t, broadcast.TopicFraudAlert, pub.published[1].Topic)
}

func TestIngestor_CheckFailureDegrades(t *testing.T) {
	t.Parallel()

	checker := &stubChecker{fn: func(context.Context, int64) (*domain.FraudEvent, error) {
		return nil, errors.New("history unavailable")
	}}
	pub := &recordingPublisher{}
	ing := telemetry.NewIngestor(&stubStore{}, checker, pub, logx.Nop())

	err := ing.Ingest(context.Background(), sample())
	require.NoError(t, err)
	require.Len(t, pub.published, 1)
}
