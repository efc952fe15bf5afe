package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/logx"
)

type stubTelemetryUsecase struct {
	ingestFn func(ctx context.Context, p domain.Position) error
}

func (s *stubTelemetryUsecase) Ingest(ctx context.Context, p domain.Position) error {
	if s.ingestFn == nil {
		panic("Ingest not expected in this test")
	}
	return s.ingestFn(ctx, p)
}

type stubLocationUsecase struct {
	currentFn func(ctx context.Context, courierID int64) (*domain.Position, error)
	historyFn func(ctx context.Context, courierID int64, limit int) ([]domain.Position, error)
}

func (s *stubLocationUsecase) Current(ctx context.Context, courierID int64) (*domain.Position, error) {
	if s.currentFn == nil {
		panic("Current not expected in this test")
	}
	return s.currentFn(ctx, courierID)
}

func (s *stubLocationUsecase) History(ctx context.Context, courierID int64, limit int) ([]domain.Position, error) {
	if s.historyFn == nil {
		panic("History not expected in this test")
	}
	return s.historyFn(ctx, courierID, limit)
}

func TestLocationHandler_Update_OK(t *testing.T) {
	t.Parallel()

	body := `{"lat":55.75,"lng":37.61,"speed":12.5,"accuracy":4.0}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/couriers/7/location", strings.NewReader(body)), "id", "7")
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	tel := &stubTelemetryUsecase{
		ingestFn: func(_ context.Context, p domain.Position) error {
			require.Equal(t, int64(7), p.CourierID)
			require.Equal(t, 55.75, p.Lat)
			require.Equal(t, 12.5, p.SpeedKmh)
			require.False(t, p.RecordedAt.IsZero())
			return nil
		},
	}

	h := NewLocationHandler(logx.Nop(), tel, &stubLocationUsecase{})
	h.Update(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLocationHandler_Update_InvalidCoordinates(t *testing.T) {
	t.Parallel()

	body := `{"lat":91,"lng":37.61}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/couriers/7/location", strings.NewReader(body)), "id", "7")
	rr := httptest.NewRecorder()

	tel := &stubTelemetryUsecase{
		ingestFn: func(context.Context, domain.Position) error {
			return apperr.Invalid
		},
	}

	h := NewLocationHandler(logx.Nop(), tel, &stubLocationUsecase{})
	h.Update(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error": "invalid coordinates"}`, rr.Body.String())
}

func TestLocationHandler_Update_StoreUnavailable(t *testing.T) {
	t.Parallel()

	body := `{"lat":55.75,"lng":37.61}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/couriers/7/location", strings.NewReader(body)), "id", "7")
	rr := httptest.NewRecorder()

	tel := &stubTelemetryUsecase{
		ingestFn: func(context.Context, domain.Position) error {
			return apperr.Unavailable
		},
	}

	h := NewLocationHandler(logx.Nop(), tel, &stubLocationUsecase{})
	h.Update(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestLocationHandler_Current_OK(t *testing.T) {
	t.Parallel()

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/couriers/7/location", nil), "id", "7")
	rr := httptest.NewRecorder()

	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	loc := &stubLocationUsecase{
		currentFn: func(_ context.Context, courierID int64) (*domain.Position, error) {
			require.Equal(t, int64(7), courierID)
			return &domain.Position{CourierID: 7, Lat: 55.75, Lng: 37.61, RecordedAt: ts}, nil
		},
	}

	h := NewLocationHandler(logx.Nop(), &stubTelemetryUsecase{}, loc)
	h.Current(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	expectedJSON := `{
        "courier_id": 7,
        "lat": 55.75,
        "lng": 37.61,
        "speed": 0,
        "accuracy": 0,
        "timestamp": "2025-06-01T10:00:00Z"
    }`
	assert.JSONEq(t, expectedJSON, rr.Body.String())
}

func TestLocationHandler_Current_Unknown(t *testing.T) {
	t.Parallel()

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/couriers/7/location", nil), "id", "7")
	rr := httptest.NewRecorder()

	loc := &stubLocationUsecase{
		currentFn: func(context.Context, int64) (*domain.Position, error) {
			return nil, apperr.UnknownLocation
		},
	}

	h := NewLocationHandler(logx.Nop(), &stubTelemetryUsecase{}, loc)
	h.Current(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLocationHandler_History_PassesLimit(t *testing.T) {
	t.Parallel()

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/couriers/7/location/history?limit=5", nil), "id", "7")
	rr := httptest.NewRecorder()

	loc := &stubLocationUsecase{
		historyFn: func(_ context.Context, courierID int64, limit int) ([]domain.Position, error) {
			require.Equal(t, int64(7), courierID)
			require.Equal(t, 5, limit)
			return []domain.Position{}, nil
		},
	}

	h := NewLocationHandler(logx.Nop(), &stubTelemetryUsecase{}, loc)
	h.History(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestLocationHandler_History_BadLimit(t *testing.T) {
	t.Parallel()

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/couriers/7/location/history?limit=abc", nil), "id", "7")
	rr := httptest.NewRecorder()

	h := NewLocationHandler(logx.Nop(), &stubTelemetryUsecase{}, &stubLocationUsecase{})
	h.History(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
