package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/runger/omnibar/internal/catalog"
)

// defaultHTTPTimeout bounds a single DevTools HTTP call.
const defaultHTTPTimeout = 2 * time.Second

// DevToolsClient talks to a Chromium-based browser started with
// --remote-debugging-port through its HTTP endpoints.
type DevToolsClient struct {
	name    string
	baseURL string
	http    *http.Client
}

// Compile-time check that DevToolsClient implements Source.
var _ Source = (*DevToolsClient)(nil)

// NewDevToolsClient creates a client for baseURL (http://127.0.0.1:9222).
func NewDevToolsClient(baseURL string, httpClient *http.Client) *DevToolsClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &DevToolsClient{
		name:    "devtools@" + hostOf(baseURL),
		baseURL: baseURL,
		http:    httpClient,
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

// Name implements Source.
func (c *DevToolsClient) Name() string { return c.name }

// Category implements Source.
func (c *DevToolsClient) Category() catalog.Category { return catalog.CategoryTab }

// target is one entry of /json/list.
type target struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	FaviconURL string `json:"faviconUrl"`
}

// Fetch lists the open page targets.
func (c *DevToolsClient) Fetch(ctx context.Context) ([]catalog.Item, error) {
	body, err := c.do(ctx, http.MethodGet, "/json/list")
	if err != nil {
		return nil, err
	}

	var targets []target
	if err := json.Unmarshal(body, &targets); err != nil {
		return nil, fmt.Errorf("devtools: decode targets: %w", err)
	}

	items := make([]catalog.Item, 0, len(targets))
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		items = append(items, catalog.Item{
			ID:         t.ID,
			Title:      t.Title,
			URL:        t.URL,
			Category:   catalog.CategoryTab,
			FaviconURL: t.FaviconURL,
			Source:     c.name,
		})
	}
	return items, nil
}

// Activate brings the tab with the given target ID to the front.
func (c *DevToolsClient) Activate(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodGet, "/json/activate/"+url.PathEscape(id))
	return err
}

// Open opens rawURL in a new tab.
func (c *DevToolsClient) Open(ctx context.Context, rawURL string) error {
	// The whole query string is the URL, not a key=value pair. It is escaped
	// so a #fragment reaches the browser instead of ending the request URL.
	_, err := c.do(ctx, http.MethodPut, "/json/new?"+url.QueryEscape(rawURL))
	return err
}

func (c *DevToolsClient) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("devtools: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devtools: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("devtools: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("devtools: %s: %w", path, ErrTabNotFound)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("devtools: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
