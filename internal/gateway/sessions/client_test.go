package sessions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-dispatch/internal/gateway/sessions"
)

func TestNewHTTPGateway_EmptyBaseURL_ReturnsNil(t *testing.T) {
	t.Parallel()

	require.Nil(t, sessions.NewHTTPGateway("", nil))
}

func TestHTTPGateway_ActiveSessions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/couriers/7/sessions", r.URL.Path)
		require.Equal(t, "300", r.URL.Query().Get("window_seconds"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sessions":[
			{"device_id":"d1","ip_address":"10.0.0.1","last_seen":"2025-06-01T10:00:00Z","device_info":"android"},
			{"device_id":"d2","ip_address":"10.0.0.2","last_seen":"2025-06-01T10:01:00Z","device_info":"ios"}
		]}`))
	}))
	defer srv.Close()

	g := sessions.NewHTTPGateway(srv.URL, srv.Client())
	require.NotNil(t, g)

	got, err := g.ActiveSessions(context.Background(), 7, 5*time.Minute)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "d1", got[0].DeviceID)
	require.Equal(t, "ios", got[1].DeviceInfo)
}

func TestHTTPGateway_ActiveSessions_StatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := sessions.NewHTTPGateway(srv.URL, srv.Client())

	_, err := g.ActiveSessions(context.Background(), 7, time.Minute)
	var st sessions.StatusError
	require.ErrorAs(t, err, &st)
	require.Equal(t, http.StatusBadGateway, st.Code)
}

func TestHTTPGateway_ActiveSessions_BadJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not-json"))
	}))
	defer srv.Close()

	g := sessions.NewHTTPGateway(srv.URL, srv.Client())

	_, err := g.ActiveSessions(context.Background(), 7, time.Minute)
	require.Error(t, err)
}
