// Package resolver fetches full killmail detail from the authoritative
// source given a ref's ID and hash.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nullsec-systems/hotzone/internal/models"
)

// Client resolves kill refs against the detail API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a resolver with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Resolve fetches the full killmail for a ref. A 404 means the killmail
// does not exist (or the hash is wrong) and returns (nil, nil); the
// caller drops the ref. Transport failures and 5xx responses return an
// error and are likewise dropped by the caller, never retried.
func (c *Client) Resolve(ctx context.Context, killID int64, hash string) (*models.RawKillmail, error) {
	url := fmt.Sprintf("%s/api/v1/killmails/%d/%s", c.baseURL, killID, hash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create killmail request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve killmail %d: %w", killID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("killmail %d: detail source returned status %d", killID, resp.StatusCode)
	}

	var raw models.RawKillmail
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode killmail %d: %w", killID, err)
	}

	return &raw, nil
}
