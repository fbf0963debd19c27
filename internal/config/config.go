package config

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/competitor-cli/internal/model"
)

// Analysis backends.
const (
	AnalysisOpenAI    = "openai"
	AnalysisAnthropic = "anthropic"
	AnalysisQwen      = "qwen"
)

// Search backends.
const (
	SearchPerplexity = "perplexity"
	SearchExa        = "exa"
)

// QwenModels is the fixed set of DashScope models the streaming backend accepts.
var QwenModels = []string{"qwen-max", "qwen-plus", "qwen-turbo", "qwen-long"}

// Config holds the full application configuration.
type Config struct {
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	DashScope  DashScopeConfig  `yaml:"dashscope" mapstructure:"dashscope"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Exa        ExaConfig        `yaml:"exa" mapstructure:"exa"`
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl" mapstructure:"firecrawl"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AnalysisConfig selects the report backend.
type AnalysisConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// SearchConfig selects the competitor discovery backend.
type SearchConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// DashScopeConfig holds Alibaba DashScope (Qwen) settings.
type DashScopeConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	Model   string  `yaml:"model" mapstructure:"model"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	TopP    float64 `yaml:"top_p" mapstructure:"top_p"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// ExaConfig holds Exa search API settings.
type ExaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// FirecrawlConfig holds Firecrawl extract API settings.
type FirecrawlConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	PollTimeoutSecs int    `yaml:"poll_timeout_secs" mapstructure:"poll_timeout_secs"`
}

// ServerConfig configures the HTTP operator surface.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPETITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("analysis.provider", AnalysisOpenAI)
	v.SetDefault("analysis.max_tokens", 4096)
	v.SetDefault("analysis.temperature", 0.7)
	v.SetDefault("search.provider", SearchPerplexity)
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("dashscope.model", "qwen-max")
	v.SetDefault("dashscope.base_url", "https://dashscope.aliyuncs.com")
	v.SetDefault("dashscope.top_p", 0.8)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("exa.base_url", "https://api.exa.ai")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.poll_timeout_secs", 300)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Keys have no defaults; bind them so AutomaticEnv sees them on Unmarshal.
	for _, k := range []string{"openai.key", "anthropic.key", "dashscope.key", "perplexity.key", "exa.key", "firecrawl.key", "openai.base_url"} {
		_ = v.BindEnv(k)
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the chosen analysis backend, search backend and the
// extraction provider are fully configured. The returned error is a
// *model.ConfigError naming every missing item.
func (c *Config) Validate() error {
	ce := &model.ConfigError{}

	switch c.Analysis.Provider {
	case "":
		ce.Missing = append(ce.Missing, "analysis.provider")
	case AnalysisOpenAI:
		if c.OpenAI.Key == "" {
			ce.Missing = append(ce.Missing, "openai.key")
		}
	case AnalysisAnthropic:
		if c.Anthropic.Key == "" {
			ce.Missing = append(ce.Missing, "anthropic.key")
		}
	case AnalysisQwen:
		if c.DashScope.Key == "" {
			ce.Missing = append(ce.Missing, "dashscope.key")
		}
		if !slices.Contains(QwenModels, c.DashScope.Model) {
			ce.Invalid = append(ce.Invalid, "dashscope.model must be one of "+strings.Join(QwenModels, ", "))
		}
	default:
		ce.Invalid = append(ce.Invalid, "analysis.provider must be openai, anthropic or qwen")
	}

	switch c.Search.Provider {
	case "":
		ce.Missing = append(ce.Missing, "search.provider")
	case SearchPerplexity:
		if c.Perplexity.Key == "" {
			ce.Missing = append(ce.Missing, "perplexity.key")
		}
	case SearchExa:
		if c.Exa.Key == "" {
			ce.Missing = append(ce.Missing, "exa.key")
		}
	default:
		ce.Invalid = append(ce.Invalid, "search.provider must be perplexity or exa")
	}

	if c.Firecrawl.Key == "" {
		ce.Missing = append(ce.Missing, "firecrawl.key")
	}

	if len(ce.Missing) > 0 || len(ce.Invalid) > 0 {
		return ce
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
