package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"service-dispatch/internal/domain"
)

// HTTPGateway fetches active device sessions from the sessions service.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates a sessions gateway backed by HTTP.
func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if baseURL == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPGateway{baseURL: baseURL, client: client}
}

// StatusError is a non-2xx response from the sessions service.
type StatusError struct {
	Code int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("sessions gateway: unexpected status %d", e.Code)
}

type sessionDTO struct {
	DeviceID   string    `json:"device_id"`
	IPAddress  string    `json:"ip_address"`
	LastSeen   time.Time `json:"last_seen"`
	DeviceInfo string    `json:"device_info"`
}

type sessionsResponse struct {
	Sessions []sessionDTO `json:"sessions"`
}

// ActiveSessions fetches sessions seen within the window for one courier.
func (g *HTTPGateway) ActiveSessions(ctx context.Context, courierID int64, window time.Duration) ([]domain.DeviceSession, error) {
	u := fmt.Sprintf("%s/v1/couriers/%d/sessions?%s", g.baseURL, courierID, url.Values{
		"window_seconds": {strconv.Itoa(int(window.Seconds()))},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("sessions gateway: build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sessions gateway: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, StatusError{Code: resp.StatusCode}
	}

	var body sessionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("sessions gateway: decode response: %w", err)
	}

	out := make([]domain.DeviceSession, 0, len(body.Sessions))
	for _, s := range body.Sessions {
		out = append(out, domain.DeviceSession{
			DeviceID:   s.DeviceID,
			IPAddress:  s.IPAddress,
			LastSeen:   s.LastSeen,
			DeviceInfo: s.DeviceInfo,
		})
	}
	return out, nil
}
