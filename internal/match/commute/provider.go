package commute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"talent-match/internal/domain/profile"
)

// TravelTimeProvider estimates door-to-door travel minutes between two
// locations. Implementations may be network-backed; callers bound every
// call with a context deadline.
type TravelTimeProvider interface {
	EstimateMinutes(ctx context.Context, origin, destination profile.Location, mode profile.CommuteMode) (float64, error)
	Ping(ctx context.Context) error
}

type httpTravelTimeProvider struct {
	baseURL string
	client  *http.Client
}

type estimateRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
}

type estimateResponse struct {
	Minutes float64 `json:"minutes"`
}

// NewHTTPProvider builds a provider against an external travel-time
// service. An empty base URL yields nil so the scorer falls back to its
// local estimator.
func NewHTTPProvider(baseURL string, timeout time.Duration) TravelTimeProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpTravelTimeProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *httpTravelTimeProvider) EstimateMinutes(ctx context.Context, origin, destination profile.Location, mode profile.CommuteMode) (float64, error) {
	if p == nil || p.client == nil {
		return 0, errors.New("nil travel time provider")
	}
	endpoint := p.baseURL + "/estimate"

	body := estimateRequest{
		Origin:      strings.TrimSpace(origin.Locality),
		Destination: strings.TrimSpace(destination.Locality),
		Mode:        string(mode),
	}
	b, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("travel time estimate failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var out estimateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	if out.Minutes < 0 {
		return 0, fmt.Errorf("travel time estimate negative: %f", out.Minutes)
	}
	return out.Minutes, nil
}

func (p *httpTravelTimeProvider) Ping(ctx context.Context) error {
	if p == nil || p.client == nil {
		return errors.New("nil travel time provider")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("travel time provider unhealthy: status=%d", resp.StatusCode)
	}
	return nil
}

var _ TravelTimeProvider = (*httpTravelTimeProvider)(nil)
