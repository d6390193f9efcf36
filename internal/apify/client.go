package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RawItem is one unnormalized dataset item as returned by an Apify actor.
// The key set varies by actor and by actor version.
type RawItem map[string]interface{}

// Client represents an Apify API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Apify client
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.apify.com"
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // actor runs are synchronous and slow
		},
	}
}

// actorPath converts an actor ID like "apify/instagram-reel-scraper" into the
// URL segment Apify expects ("apify~instagram-reel-scraper").
func actorPath(actorID string) string {
	return strings.ReplaceAll(actorID, "/", "~")
}

// RunActor starts an actor run synchronously and returns its default dataset
// items. The call blocks until the run finishes.
func (c *Client) RunActor(ctx context.Context, actorID string, input map[string]interface{}) ([]RawItem, error) {
	jsonBody, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode actor input: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, actorPath(actorID), url.QueryEscape(c.token),
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("actor %s call failed: %w", actorID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("actor %s returned %s: %s", actorID, resp.Status, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var items []RawItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode dataset items: %w", err)
	}

	return items, nil
}
