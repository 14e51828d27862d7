// ABOUTME: HTTP client for the powercalc backend API
// ABOUTME: Wraps API calls with proper error handling for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/somemela/powercalc/models"
)

// Client is the API client for the powercalc backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HealthStatus represents the /api/v1/health endpoint response
type HealthStatus struct {
	Status               string `json:"status"`
	CacheEntries         int    `json:"cache_entries"`
	MaxGridRows          int    `json:"max_grid_rows"`
	AllowDegenerateTheta bool   `json:"allow_degenerate_theta"`
}

// Health calls the /api/v1/health endpoint
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var health HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}

	return &health, nil
}

// SampleSize calls POST /api/v1/samplesize
func (c *Client) SampleSize(ctx context.Context, params *models.SizeParams) (*models.SizeTable, error) {
	var table models.SizeTable
	if err := c.post(ctx, "/api/v1/samplesize", params, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// Power calls POST /api/v1/power
func (c *Client) Power(ctx context.Context, params *models.PowerParams) (*models.PowerTable, error) {
	var table models.PowerTable
	if err := c.post(ctx, "/api/v1/power", params, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// post sends a JSON request body and decodes the JSON response into out
func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}

	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if errResp.Details != "" {
		return fmt.Errorf("backend error: %s: %s", errResp.Error, errResp.Details)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
