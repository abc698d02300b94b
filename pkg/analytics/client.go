// Package analytics integrates the web analytics provider and computes
// the business-analysis financial summary for the admin dashboard.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
)

// Client fetches aggregated visit metrics from the analytics provider.
type Client struct {
	baseURL    string
	siteID     string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.AnalyticsConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		siteID:  cfg.SiteID,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FullReport is the provider's aggregated answer for a date range; this
// system performs no arithmetic on it beyond display.
type FullReport struct {
	Visits    int64            `json:"visits"`
	Sessions  int64            `json:"sessions"`
	Devices   map[string]int64 `json:"devices"`
	Countries map[string]int64 `json:"countries"`
	TopPages  []PageStat       `json:"top_pages"`
}

type PageStat struct {
	Path   string `json:"path"`
	Visits int64  `json:"visits"`
}

func (c *Client) FetchFullReport(ctx context.Context, start, end time.Time) (*FullReport, error) {
	q := url.Values{}
	q.Set("site_id", c.siteID)
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))

	reqURL := fmt.Sprintf("%s/stats/full?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analytics request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analytics provider returned status %d", resp.StatusCode)
	}

	var report FullReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode analytics response: %w", err)
	}
	return &report, nil
}
