package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/competitor-cli/internal/analysis"
	"github.com/sells-group/competitor-cli/internal/model"
)

// --- Discoverer Mock ---

type mockDiscoverer struct {
	mock.Mock
}

func (m *mockDiscoverer) Name() string { return "perplexity" }

func (m *mockDiscoverer) Discover(ctx context.Context, seed model.Seed) ([]string, error) {
	args := m.Called(ctx, seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, url string) (*model.Competitor, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Competitor), args.Error(1)
}

// --- Analyzer Mock ---

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, records []model.Competitor) (*analysis.Report, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Report), args.Error(1)
}
