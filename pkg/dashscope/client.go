// Package dashscope streams Qwen text generations from Alibaba DashScope.
package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://dashscope.aliyuncs.com"
	generationPath = "/api/v1/services/aigc/text-generation/generation"
)

// Client streams text generations.
type Client interface {
	StreamGeneration(ctx context.Context, req GenerationRequest) (Stream, error)
}

// GenerationRequest is our own request type for a streamed generation.
type GenerationRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	TopP        *float64
	MaxTokens   int64
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model      string         `json:"model"`
	Input      wireInput      `json:"input"`
	Parameters wireParameters `json:"parameters"`
}

type wireInput struct {
	Messages []Message `json:"messages"`
}

// IncrementalOutput is always false so every event carries the full text so far.
type wireParameters struct {
	ResultFormat      string   `json:"result_format"`
	IncrementalOutput bool     `json:"incremental_output"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	MaxTokens         int64    `json:"max_tokens,omitempty"`
}

// APIError is returned when DashScope rejects the request before streaming.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashscope: HTTP %d: %s", e.StatusCode, e.Body)
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

// NewClient creates a DashScope client. The default http.Client has no
// timeout since generations stream for as long as the model writes.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) StreamGeneration(ctx context.Context, req GenerationRequest) (Stream, error) {
	body, err := json.Marshal(wireRequest{
		Model: req.Model,
		Input: wireInput{Messages: req.Messages},
		Parameters: wireParameters{
			ResultFormat: "message",
			Temperature:  req.Temperature,
			TopP:         req.TopP,
			MaxTokens:    req.MaxTokens,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "dashscope: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generationPath, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "dashscope: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-DashScope-SSE", "enable")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "dashscope: send request")
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return newStream(resp.Body), nil
}
