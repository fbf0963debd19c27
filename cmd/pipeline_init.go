package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/analysis"
	"github.com/sells-group/competitor-cli/internal/config"
	"github.com/sells-group/competitor-cli/internal/discovery"
	"github.com/sells-group/competitor-cli/internal/extract"
	"github.com/sells-group/competitor-cli/internal/pipeline"
	"github.com/sells-group/competitor-cli/pkg/exa"
	"github.com/sells-group/competitor-cli/pkg/firecrawl"
	"github.com/sells-group/competitor-cli/pkg/perplexity"
)

// initPipeline validates c, builds every API client the configured
// backends need, and returns the run controller.
func initPipeline(c *config.Config) (*pipeline.Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var clients discovery.Clients
	if c.Perplexity.Key != "" {
		clients.Perplexity = perplexity.NewClient(c.Perplexity.Key,
			perplexity.WithBaseURL(c.Perplexity.BaseURL),
			perplexity.WithModel(c.Perplexity.Model),
		)
	}
	if c.Exa.Key != "" {
		clients.Exa = exa.NewClient(c.Exa.Key, exa.WithBaseURL(c.Exa.BaseURL))
	}
	disc, err := discovery.New(c, clients)
	if err != nil {
		return nil, err
	}

	fc := firecrawl.NewClient(c.Firecrawl.Key, firecrawl.WithBaseURL(c.Firecrawl.BaseURL))
	extractor := extract.New(fc, time.Duration(c.Firecrawl.PollTimeoutSecs)*time.Second)

	backend, err := analysis.NewBackend(c)
	if err != nil {
		zap.L().Warn("analysis backend unavailable", zap.String("backend", c.Analysis.Provider), zap.Error(err))
		backend = nil
	}
	engine := analysis.NewEngine(backend, c.Analysis.Provider)

	zap.L().Info("pipeline initialized",
		zap.String("search", disc.Name()),
		zap.String("analysis", c.Analysis.Provider),
	)
	return pipeline.New(c, disc, extractor, engine), nil
}
