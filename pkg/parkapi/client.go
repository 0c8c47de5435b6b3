// Package parkapi is a small client for the ParkAPI lot availability service.
package parkapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public ParkAPI endpoint
const DefaultBaseURL = "https://api.parkendd.de"

// Coords is a lot coordinate as returned by ParkAPI
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Lot is a single parking lot in a city listing
type Lot struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	LotType string  `json:"lot_type"`
	Free    int     `json:"free"`
	Total   int     `json:"total"`
	State   string  `json:"state"`
	Coords  *Coords `json:"coords"`
}

// CityResponse is the payload of GET /{city}
type CityResponse struct {
	LastUpdated string `json:"last_updated"`
	LastScraped string `json:"last_downloaded"`
	Lots        []Lot  `json:"lots"`
}

// Client fetches lot listings from ParkAPI
type Client struct {
	baseURL string
	client  *http.Client
}

// Config holds configuration for the ParkAPI client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new ParkAPI client
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetCity fetches the lot listing for a city id
func (c *Client) GetCity(ctx context.Context, cityID string) (*CityResponse, error) {
	if cityID == "" {
		return nil, fmt.Errorf("city id cannot be empty")
	}

	reqURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(cityID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch city %s: %w", cityID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parkapi returned status %d for %s", resp.StatusCode, cityID)
	}

	var cityResp CityResponse
	if err := json.Unmarshal(body, &cityResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &cityResp, nil
}
