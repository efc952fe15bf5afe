package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/http/handlers"
	"service-dispatch/internal/http/middleware/ratelimit"
	"service-dispatch/internal/http/router"
	"service-dispatch/internal/logx"
)

func newTestRouter() http.Handler {
	logger := logx.Nop()
	base := handlers.New(logger)
	dispatch := &handlers.DispatchHandler{}
	location := &handlers.LocationHandler{}
	fraud := &handlers.FraudHandler{}
	limiter := ratelimit.New(logger, nil, ratelimit.NopLimiter{})

	return router.New(logger, base, dispatch, location, fraud, limiter)
}

func TestNew_NotNil(t *testing.T) {
	t.Parallel()

	var _ http.Handler = newTestRouter()
}

func TestRouter_Ping(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_UnknownRouteIsJSON404(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestRouter_MetricsExposed(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}
