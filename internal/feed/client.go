// Package feed pulls batches of killmail references from the public
// kill feed. Batches may be empty and may repeat refs across polls; the
// dedup cache downstream handles repeats.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nullsec-systems/hotzone/internal/models"
)

// Client fetches kill refs over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a feed client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type batchResponse struct {
	Refs []models.KillRef `json:"refs"`
}

// Fetch pulls the current batch of refs. Any transport failure or non-2xx
// status is returned as an error; the caller skips the cycle, no retry.
func (c *Client) Fetch(ctx context.Context) ([]models.KillRef, error) {
	url := fmt.Sprintf("%s/api/v1/feed/recent", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var batch batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}

	return batch.Refs, nil
}
