// Package shipping wraps the carrier API. The carrier is an opaque
// collaborator: this client only fetches shipment details and tracking
// events by AWB code.
package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
)

var ErrShipmentNotFound = errors.New("shipment not found")

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.ShippingConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type Shipment struct {
	AWB         string          `json:"awb"`
	Status      string          `json:"status"`
	Consignee   string          `json:"consignee"`
	Destination string          `json:"destination"`
	Events      []TrackingEvent `json:"events"`
}

type TrackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

// Track fetches shipment details for an AWB code. Events come back in
// chronological order regardless of how the carrier returns them.
func (c *Client) Track(ctx context.Context, awb string) (*Shipment, error) {
	url := fmt.Sprintf("%s/shipments/%s", c.baseURL, awb)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carrier request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrShipmentNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("carrier returned status %d", resp.StatusCode)
	}

	var shipment Shipment
	if err := json.NewDecoder(resp.Body).Decode(&shipment); err != nil {
		return nil, fmt.Errorf("failed to decode carrier response: %w", err)
	}

	sort.Slice(shipment.Events, func(i, j int) bool {
		return shipment.Events[i].Timestamp.Before(shipment.Events[j].Timestamp)
	})
	return &shipment, nil
}
