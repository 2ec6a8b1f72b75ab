// Package wiki reads ticket link tables from Confluence pages.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxPageSize caps Confluence page bodies at 8 MiB.
const maxPageSize = 8 << 20

// Client fetches page content from the Confluence REST API.
type Client struct {
	baseURL  string
	username string
	apiToken string
	http     *http.Client
}

// ClientConfig holds Confluence access settings.
type ClientConfig struct {
	BaseURL  string
	Username string
	APIToken string
	Timeout  time.Duration
}

// NewClient creates a Confluence API client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		apiToken: cfg.APIToken,
		http:     &http.Client{Timeout: timeout},
	}
}

type pageResponse struct {
	Title string `json:"title"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
}

// PageBody fetches a page's storage-format HTML body.
func (c *Client) PageBody(ctx context.Context, pageID string) (string, error) {
	url := fmt.Sprintf("%s/rest/api/content/%s?expand=body.storage", c.baseURL, pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page %s: %w", pageID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page %s: unexpected status %d", pageID, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("read page %s: %w", pageID, err)
	}

	var page pageResponse
	if err := json.Unmarshal(data, &page); err != nil {
		return "", fmt.Errorf("decode page %s: %w", pageID, err)
	}
	return page.Body.Storage.Value, nil
}
