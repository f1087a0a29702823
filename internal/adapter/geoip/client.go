// Package geoip resolves a coarse position from the caller's public IP.
// It is the fallback stage of position acquisition, used when no primary
// location source is configured or the primary source fails.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
)

var ErrNoCoordinates = fmt.Errorf("no coordinates in geolocation response")

type Client struct {
	endpoint string
	http     *http.Client
}

// New builds a client against an ipapi-compatible endpoint
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
}

type locationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Locate performs a single-shot IP geolocation lookup
func (c *Client) Locate(ctx context.Context) (models.Position, error) {
	const op = "geoip.Client.Locate"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return models.Position{}, fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.Position{}, wrap.Error(ctx, fmt.Errorf("%s: request failed: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.Position{}, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload locationPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Position{}, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	if payload.Latitude == nil || payload.Longitude == nil {
		return models.Position{}, fmt.Errorf("%s: %w", op, ErrNoCoordinates)
	}

	return models.Position{
		Latitude:  *payload.Latitude,
		Longitude: *payload.Longitude,
	}, nil
}
