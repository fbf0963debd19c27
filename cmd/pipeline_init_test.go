package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/competitor-cli/internal/config"
	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/internal/pipeline"
)

func testConfig() *config.Config {
	return &config.Config{
		Analysis:   config.AnalysisConfig{Provider: config.AnalysisQwen, MaxTokens: 4096, Temperature: 0.7},
		Search:     config.SearchConfig{Provider: config.SearchExa},
		DashScope:  config.DashScopeConfig{Key: "dk", Model: "qwen-max", TopP: 0.8},
		Exa:        config.ExaConfig{Key: "ek"},
		Firecrawl:  config.FirecrawlConfig{Key: "fk", PollTimeoutSecs: 60},
		Perplexity: config.PerplexityConfig{Model: "sonar-pro"},
	}
}

func TestInitPipeline(t *testing.T) {
	p, err := initPipeline(testConfig())
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateIdle, p.State())
}

func TestInitPipeline_InvalidConfig(t *testing.T) {
	c := testConfig()
	c.Exa.Key = ""
	c.DashScope.Model = "qwen-ultra"

	p, err := initPipeline(c)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, model.IsConfigError(err))
	assert.Contains(t, err.Error(), "exa.key")
	assert.Contains(t, err.Error(), "dashscope.model")
}
