package discovery

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/config"
	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/pkg/perplexity"
)

const perplexitySystemPrompt = "Be precise and only return 10 company URLs."

// PerplexityDiscoverer asks a Perplexity chat model for competitor URLs and
// reads them back one per line.
type PerplexityDiscoverer struct {
	client perplexity.Client
	model  string
}

// NewPerplexity creates a PerplexityDiscoverer. An empty model defers to
// the client's default.
func NewPerplexity(client perplexity.Client, model string) *PerplexityDiscoverer {
	return &PerplexityDiscoverer{client: client, model: model}
}

// Name reports the search provider.
func (d *PerplexityDiscoverer) Name() string { return config.SearchPerplexity }

// Discover runs one chat completion and splits its content on line breaks.
func (d *PerplexityDiscoverer) Discover(ctx context.Context, seed model.Seed) ([]string, error) {
	seed = seed.Trimmed()
	if seed.Empty() {
		return nil, &model.InputError{}
	}

	temp := 0.8
	maxTokens := 1000
	req := perplexity.ChatCompletionRequest{
		Model: d.model,
		Messages: []perplexity.Message{
			{Role: "system", Content: perplexitySystemPrompt},
			{Role: "user", Content: buildQuery(seed)},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}
	resp, err := d.client.ChatCompletion(ctx, req)
	if err != nil {
		return nil, model.NewProviderError(config.SearchPerplexity, err)
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(resp.Content()), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	warnMalformed(config.SearchPerplexity, lines)

	urls := dedupe(lines)
	zap.L().Info("discovery: perplexity complete",
		zap.Int("lines", len(lines)),
		zap.Int("urls", len(urls)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return urls, nil
}

// buildQuery phrases the user message from whichever seed parts are set.
func buildQuery(seed model.Seed) string {
	var subject string
	switch {
	case seed.URL != "" && seed.Description != "":
		subject = fmt.Sprintf("URL: %s and description: %s", seed.URL, seed.Description)
	case seed.URL != "":
		subject = "URL: " + seed.URL
	default:
		subject = "description: " + seed.Description
	}
	return "Find 10 competitor company URLs similar to the company with " + subject +
		". ONLY RESPOND WITH THE URLS, NO OTHER TEXT."
}
