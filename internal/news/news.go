// Package news fetches top headlines from newsapi.org.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable is returned when the news capability cannot be reached or
// returned no articles.
var ErrUnavailable = errors.New("news service unavailable")

// ErrDisabled is returned when the client was constructed without an API key.
var ErrDisabled = errors.New("news service not configured")

const endpoint = "https://newsapi.org/v2/top-headlines"

// maxHeadlines bounds how many headlines are read out per request.
const maxHeadlines = 3

// Provider fetches a short list of headlines for a category.
type Provider interface {
	TopHeadlines(ctx context.Context, category string) ([]string, error)
}

// Client talks to the newsapi.org top-headlines endpoint.
type Client struct {
	apiKey  string
	country string
	timeout time.Duration
	client  *http.Client
	baseURL string
}

// Options configures a Client.
type Options struct {
	// APIKey may be empty: the client then reports ErrDisabled on every
	// call and the assistant degrades to a spoken "unavailable" reply.
	APIKey  string
	Country string
	Timeout time.Duration

	// BaseURL overrides the production endpoint, for tests.
	BaseURL string
}

// New creates a news client.
func New(opts Options) *Client {
	country := opts.Country
	if country == "" {
		country = "us"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = endpoint
	}
	return &Client{
		apiKey:  opts.APIKey,
		country: country,
		timeout: timeout,
		client:  &http.Client{},
		baseURL: baseURL,
	}
}

// TopHeadlines returns up to three headline titles for the given category.
func (c *Client) TopHeadlines(ctx context.Context, category string) ([]string, error) {
	if c.apiKey == "" {
		return nil, ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := make(url.Values)
	q.Set("country", c.country)
	q.Set("category", category)
	q.Set("pageSize", fmt.Sprint(maxHeadlines))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, respBody)
	}

	var result struct {
		Articles []struct {
			Title string `json:"title"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	var headlines []string
	for _, a := range result.Articles {
		if a.Title == "" {
			continue
		}
		headlines = append(headlines, a.Title)
		if len(headlines) == maxHeadlines {
			break
		}
	}
	if len(headlines) == 0 {
		return nil, fmt.Errorf("%w: no articles returned", ErrUnavailable)
	}

	slog.Debug("headlines fetched", "category", category, "count", len(headlines))
	return headlines, nil
}
