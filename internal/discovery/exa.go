package discovery

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/config"
	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/pkg/exa"
)

// ExaDiscoverer finds competitors through Exa similarity or neural search.
type ExaDiscoverer struct {
	client exa.Client
}

// NewExa creates an ExaDiscoverer.
func NewExa(client exa.Client) *ExaDiscoverer {
	return &ExaDiscoverer{client: client}
}

// Name reports the search provider.
func (d *ExaDiscoverer) Name() string { return config.SearchExa }

// Discover uses findSimilar when the seed has a URL and neural search on the
// description otherwise. A short result list is topped up with one
// "<description> competitors" query whose failure is ignored.
func (d *ExaDiscoverer) Discover(ctx context.Context, seed model.Seed) ([]string, error) {
	seed = seed.Trimmed()
	if seed.Empty() {
		return nil, &model.InputError{}
	}

	var (
		resp *exa.SearchResponse
		err  error
	)
	if seed.URL != "" {
		resp, err = d.client.FindSimilar(ctx, exa.FindSimilarRequest{
			URL:                 seed.URL,
			NumResults:          MaxURLs,
			ExcludeSourceDomain: true,
			Category:            exa.CategoryCompany,
		})
	} else {
		resp, err = d.client.Search(ctx, exa.SearchRequest{
			Query:         seed.Description,
			Type:          exa.SearchTypeNeural,
			Category:      exa.CategoryCompany,
			UseAutoprompt: true,
			NumResults:    MaxURLs,
		})
	}
	if err != nil {
		return nil, model.NewProviderError(config.SearchExa, err)
	}

	urls := resp.URLs()
	if len(urls) < MaxURLs && seed.Description != "" {
		extra, err := d.client.Search(ctx, exa.SearchRequest{
			Query:      seed.Description + " competitors",
			Type:       exa.SearchTypeNeural,
			NumResults: MaxURLs - len(urls),
		})
		if err != nil {
			zap.L().Warn("discovery: exa supplementary search failed", zap.Error(err))
		} else {
			urls = append(urls, extra.URLs()...)
		}
	}

	out := dedupe(urls)
	zap.L().Info("discovery: exa complete",
		zap.Bool("similar", seed.URL != ""),
		zap.Int("urls", len(out)),
	)
	return out, nil
}
