// Package client talks to a shakesearch query endpoint over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/shakesearch/pkg/controller"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Client fetches result pages from GET <BaseURL>/search.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client for baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// SearchURL builds the request URL for req.
func (c *Client) SearchURL(req controller.PageRequest) string {
	values := url.Values{}
	values.Set("q", req.Query)
	values.Set("page", strconv.Itoa(req.Page))
	values.Set("pageSize", strconv.Itoa(req.PageSize))
	return c.BaseURL + "/search?" + values.Encode()
}

// Fetch implements controller.Fetcher. A JSON null body is an empty page.
func (c *Client) Fetch(ctx context.Context, req controller.PageRequest) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("requesting page %d: %w", req.Page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var results []string
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding page %d: %w", req.Page, err)
	}
	if results == nil {
		results = []string{}
	}
	return results, nil
}
