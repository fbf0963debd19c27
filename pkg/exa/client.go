// Package exa is a minimal client for the Exa neural search API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.exa.ai"

// Search types and categories used by competitor discovery.
const (
	SearchTypeNeural = "neural"
	CategoryCompany  = "company"
)

// Client defines the Exa operations used for competitor discovery.
type Client interface {
	FindSimilar(ctx context.Context, req FindSimilarRequest) (*SearchResponse, error)
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// FindSimilarRequest is the body for POST /findSimilar.
type FindSimilarRequest struct {
	URL                 string `json:"url"`
	NumResults          int    `json:"numResults,omitempty"`
	ExcludeSourceDomain bool   `json:"excludeSourceDomain,omitempty"`
	Category            string `json:"category,omitempty"`
}

// SearchRequest is the body for POST /search.
type SearchRequest struct {
	Query         string `json:"query"`
	Type          string `json:"type,omitempty"`
	Category      string `json:"category,omitempty"`
	UseAutoprompt bool   `json:"useAutoprompt,omitempty"`
	NumResults    int    `json:"numResults,omitempty"`
}

// SearchResponse is returned by both /search and /findSimilar.
type SearchResponse struct {
	RequestID string   `json:"requestId"`
	Results   []Result `json:"results"`
}

// URLs returns the result URLs in response order.
func (r *SearchResponse) URLs() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, res.URL)
	}
	return out
}

// Result is a single search hit.
type Result struct {
	ID            string  `json:"id"`
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"publishedDate,omitempty"`
}

// APIError is returned when Exa responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exa: HTTP %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Exa client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) FindSimilar(ctx context.Context, req FindSimilarRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.post(ctx, "/findSimilar", req, &resp); err != nil {
		return nil, eris.Wrap(err, "exa: find similar")
	}
	return &resp, nil
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.post(ctx, "/search", req, &resp); err != nil {
		return nil, eris.Wrap(err, "exa: search")
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}
