// Package discovery finds candidate competitor URLs for a seed company.
package discovery

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/config"
	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/pkg/exa"
	"github.com/sells-group/competitor-cli/pkg/perplexity"
)

// MaxURLs caps the number of competitor URLs a single discovery returns.
const MaxURLs = 10

// Discoverer returns up to MaxURLs unique competitor URLs for a seed.
type Discoverer interface {
	Name() string
	Discover(ctx context.Context, seed model.Seed) ([]string, error)
}

// Clients holds the search clients a Discoverer may be built from.
type Clients struct {
	Perplexity perplexity.Client
	Exa        exa.Client
}

// New selects the discovery strategy named by cfg.Search.Provider.
func New(cfg *config.Config, clients Clients) (Discoverer, error) {
	switch cfg.Search.Provider {
	case config.SearchPerplexity:
		if clients.Perplexity == nil {
			return nil, eris.New("discovery: perplexity client not configured")
		}
		return NewPerplexity(clients.Perplexity, cfg.Perplexity.Model), nil
	case config.SearchExa:
		if clients.Exa == nil {
			return nil, eris.New("discovery: exa client not configured")
		}
		return NewExa(clients.Exa), nil
	default:
		return nil, eris.Errorf("discovery: unknown search provider %q", cfg.Search.Provider)
	}
}

// dedupe keeps the first occurrence of each URL, drops blanks and caps the
// result at MaxURLs.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, MaxURLs)
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == MaxURLs {
			break
		}
	}
	return out
}

// warnMalformed logs entries that are not absolute http(s) URLs. They are
// passed through; the extractor fails them per item.
func warnMalformed(provider string, urls []string) {
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			continue
		}
		zap.L().Warn("discovery: result is not an absolute URL",
			zap.String("provider", provider),
			zap.String("value", raw),
		)
	}
}
