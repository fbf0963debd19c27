// Package cost estimates the provider spend of a run.
package cost

import (
	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/config"
	"github.com/sells-group/competitor-cli/internal/model"
)

// Rates holds per-provider pricing configuration.
type Rates struct {
	Models     map[string]ModelRate `yaml:"models" mapstructure:"models"`
	Perplexity QueryRate            `yaml:"perplexity" mapstructure:"perplexity"`
	Exa        QueryRate            `yaml:"exa" mapstructure:"exa"`
	Firecrawl  FirecrawlRate        `yaml:"firecrawl" mapstructure:"firecrawl"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// QueryRate is a flat price per search request.
type QueryRate struct {
	PerQuery float64 `yaml:"per_query" mapstructure:"per_query"`
}

// FirecrawlRate holds Firecrawl pricing.
type FirecrawlRate struct {
	PlanMonthly     float64 `yaml:"plan_monthly" mapstructure:"plan_monthly"`
	CreditsIncluded float64 `yaml:"credits_included" mapstructure:"credits_included"`
	// CreditsPerExtract is the credit charge of one extract job.
	CreditsPerExtract float64 `yaml:"credits_per_extract" mapstructure:"credits_per_extract"`
}

// Breakdown is the estimated cost of one run, in USD.
type Breakdown struct {
	Search     float64 `json:"search" yaml:"search"`
	Extraction float64 `json:"extraction" yaml:"extraction"`
	Analysis   float64 `json:"analysis" yaml:"analysis"`
	Total      float64 `json:"total" yaml:"total"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Tokens computes the cost of one model call. Unknown models cost 0.
func (c *Calculator) Tokens(u model.TokenUsage) float64 {
	rate, ok := c.rates.Models[u.Model]
	if !ok {
		if u.InputTokens+u.OutputTokens > 0 {
			zap.L().Debug("cost: no rate for model", zap.String("model", u.Model))
		}
		return 0
	}
	return (float64(u.InputTokens)/1e6)*rate.Input + (float64(u.OutputTokens)/1e6)*rate.Output
}

// Search returns the cost of n queries against provider.
func (c *Calculator) Search(provider string, n int) float64 {
	switch provider {
	case config.SearchPerplexity:
		return float64(n) * c.rates.Perplexity.PerQuery
	case config.SearchExa:
		return float64(n) * c.rates.Exa.PerQuery
	default:
		return 0
	}
}

// Extract returns the amortized plan cost of n extract jobs.
func (c *Calculator) Extract(n int) float64 {
	fc := c.rates.Firecrawl
	if fc.CreditsIncluded == 0 {
		return 0
	}
	return float64(n) * fc.CreditsPerExtract * fc.PlanMonthly / fc.CreditsIncluded
}

// Run prices every billable call of a run.
func (c *Calculator) Run(u model.RunUsage) Breakdown {
	b := Breakdown{
		Search:     c.Search(u.SearchProvider, u.SearchQueries),
		Extraction: c.Extract(u.Extractions),
		Analysis:   c.Tokens(u.Analysis),
	}
	b.Total = b.Search + b.Extraction + b.Analysis
	return b
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Models: map[string]ModelRate{
			"gpt-4o":                     {Input: 2.50, Output: 10.00},
			"gpt-4o-mini":                {Input: 0.15, Output: 0.60},
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
			"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
			"qwen-max":                   {Input: 1.60, Output: 6.40},
			"qwen-plus":                  {Input: 0.40, Output: 1.20},
			"qwen-turbo":                 {Input: 0.05, Output: 0.20},
			"qwen-long":                  {Input: 0.07, Output: 0.28},
		},
		Perplexity: QueryRate{PerQuery: 0.005},
		Exa:        QueryRate{PerQuery: 0.005},
		Firecrawl:  FirecrawlRate{PlanMonthly: 19.00, CreditsIncluded: 3000, CreditsPerExtract: 5},
	}
}
