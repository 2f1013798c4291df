package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

// APIClient searches a JSON photo API (Unsplash-compatible response shape).
type APIClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.ImageProvider = (*APIClient)(nil)

// NewAPIClient creates a reusable HTTP client.
func NewAPIClient(endpoint, apiKey string) *APIClient {
	return &APIClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type searchResponse struct {
	Results []struct {
		URL  string `json:"url"`
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search returns the first result URL for the query.
func (c *APIClient) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: empty query", domain.ErrNoResults)
	}

	var resp searchResponse
	if err := c.get(ctx, url.Values{"query": {query}, "per_page": {"1"}}, &resp); err != nil {
		return "", err
	}

	for _, r := range resp.Results {
		if r.URLs.Regular != "" {
			return r.URLs.Regular, nil
		}
		if r.URL != "" {
			return r.URL, nil
		}
	}
	return "", fmt.Errorf("%w for %q", domain.ErrNoResults, query)
}

func (c *APIClient) get(ctx context.Context, params url.Values, v any) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("invalid image endpoint %s: %w", c.endpoint, err)
	}
	q := u.Query()
	for k, vals := range params {
		for _, val := range vals {
			q.Add(k, val)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Client-ID "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: do request: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("%w: unexpected status %s, close body: %v", domain.ErrProvider, resp.Status, closeErr)
		}
		return fmt.Errorf("%w: unexpected status %s", domain.ErrProvider, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("%w: decode response: %v", domain.ErrProvider, err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
