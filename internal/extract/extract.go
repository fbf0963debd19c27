// Package extract turns a competitor URL into a normalized Competitor record
// through Firecrawl's schema-guided extraction.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/pkg/firecrawl"
)

const provider = "firecrawl"

// Extractor returns one record per URL, or an error when nothing usable
// came back.
type Extractor interface {
	Extract(ctx context.Context, url string) (*model.Competitor, error)
}

// FirecrawlExtractor starts an extract job per URL and polls it to
// completion.
type FirecrawlExtractor struct {
	client   firecrawl.Client
	pollOpts []firecrawl.PollOption
}

// New creates a FirecrawlExtractor. pollTimeout bounds each job when the
// caller's context has no deadline; zero keeps the client default.
func New(client firecrawl.Client, pollTimeout time.Duration, opts ...firecrawl.PollOption) *FirecrawlExtractor {
	pollOpts := append([]firecrawl.PollOption{firecrawl.WithPollTimeout(pollTimeout)}, opts...)
	return &FirecrawlExtractor{client: client, pollOpts: pollOpts}
}

// Extract probes url and its direct sub-pages.
func (e *FirecrawlExtractor) Extract(ctx context.Context, url string) (*model.Competitor, error) {
	log := zap.L().With(zap.String("url", url))
	start := time.Now()

	req := firecrawl.ExtractRequest{
		URLs:   []string{urlPattern(url)},
		Prompt: instruction,
		Schema: JSONSchema(),
	}
	job, err := e.client.Extract(ctx, req)
	if err != nil {
		return nil, model.NewProviderError(provider, err)
	}
	if !job.Success || job.ID == "" {
		reason := job.Error
		if reason == "" {
			reason = "extract request not accepted"
		}
		return nil, model.NewProviderError(provider, eris.New(reason))
	}

	status, err := firecrawl.PollExtract(ctx, e.client, job.ID, e.pollOpts...)
	if err != nil {
		return nil, model.NewProviderError(provider, err)
	}
	if !status.HasData() {
		return nil, model.NewProviderError(provider, &model.EmptyResultError{Stage: "extract"})
	}

	p, err := decodePayload(status.Data)
	if err != nil {
		return nil, model.NewProviderError(provider, err)
	}

	rec := toCompetitor(url, p)
	log.Info("extract: complete",
		zap.String("job_id", job.ID),
		zap.String("company", rec.CompanyName),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return rec, nil
}

// urlPattern widens url to include its sub-pages.
func urlPattern(url string) string {
	return strings.TrimRight(strings.TrimSpace(url), "/") + "/*"
}

func toCompetitor(url string, p payload) *model.Competitor {
	c := &model.Competitor{
		SourceURL:        url,
		CompanyName:      p.CompanyName,
		Pricing:          p.Pricing,
		KeyFeatures:      p.KeyFeatures,
		TechStack:        p.TechStack,
		MarketingFocus:   p.MarketingFocus,
		CustomerFeedback: p.CustomerFeedback,
	}
	c.Normalize()
	return c
}
