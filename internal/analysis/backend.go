package analysis

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/config"
	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/pkg/anthropic"
	"github.com/sells-group/competitor-cli/pkg/dashscope"
	"github.com/sells-group/competitor-cli/pkg/openai"
)

// Completion is the raw output of one backend call.
type Completion struct {
	Text  string
	Usage model.TokenUsage
	// Streamed marks output assembled from cumulative chunks; the engine
	// cleans duplicated headings and paragraphs from it.
	Streamed bool
}

// Backend produces report text from a prompt.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (Completion, error)
}

// Completer is a single request/response model call.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (Completion, error)
}

// Streamer opens a streamed model call.
type Streamer interface {
	Stream(ctx context.Context, system, prompt string) (dashscope.Stream, error)
}

// SingleShot returns the model answer directly.
type SingleShot struct {
	name      string
	completer Completer
}

// NewSingleShot wraps c as a backend called name.
func NewSingleShot(name string, c Completer) *SingleShot {
	return &SingleShot{name: name, completer: c}
}

// Name implements Backend.
func (b *SingleShot) Name() string { return b.name }

// Generate implements Backend.
func (b *SingleShot) Generate(ctx context.Context, prompt string) (Completion, error) {
	c, err := b.completer.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return Completion{}, model.NewProviderError(b.name, err)
	}
	return c, nil
}

// chunkPaths are the locations of cumulative text in a stream chunk.
var chunkPaths = []string{
	"content",
	"output.choices.0.message.content",
	"output.text",
	"extra.model_service_info.output.choices.0.message.content",
}

// Streaming assembles the answer from a cumulative stream.
type Streaming struct {
	name     string
	model    string
	streamer Streamer
}

// NewStreaming wraps s as a backend called name.
func NewStreaming(name, modelName string, s Streamer) *Streaming {
	return &Streaming{name: name, model: modelName, streamer: s}
}

// Name implements Backend.
func (b *Streaming) Name() string { return b.name }

// Generate implements Backend.
func (b *Streaming) Generate(ctx context.Context, prompt string) (Completion, error) {
	stream, err := b.streamer.Stream(ctx, SystemPrompt, prompt)
	if err != nil {
		return Completion{}, model.NewProviderError(b.name, err)
	}
	defer stream.Close() //nolint:errcheck

	var acc Accumulator
	usage := model.TokenUsage{Model: b.model}
	chunks := 0
	for stream.Next() {
		chunks++
		doc := gjson.ParseBytes(stream.Chunk())
		for _, text := range chunkTexts(doc) {
			acc.Feed(text)
		}
		if u := doc.Get("usage"); u.Exists() {
			usage.InputTokens = u.Get("input_tokens").Int()
			usage.OutputTokens = u.Get("output_tokens").Int()
		}
	}
	if err := stream.Err(); err != nil {
		return Completion{}, model.NewProviderError(b.name, eris.Wrap(err, "analysis: read stream"))
	}

	zap.L().Debug("analysis: stream complete",
		zap.String("backend", b.name),
		zap.Int("chunks", chunks),
	)
	return Completion{Text: acc.String(), Usage: usage, Streamed: true}, nil
}

// chunkTexts pulls cumulative text out of a chunk, which may be a single
// object or an array of objects.
func chunkTexts(doc gjson.Result) []string {
	items := []gjson.Result{doc}
	if doc.IsArray() {
		items = doc.Array()
	}
	var out []string
	for _, it := range items {
		if !it.IsObject() {
			continue
		}
		for _, p := range chunkPaths {
			if v := it.Get(p); v.Type == gjson.String {
				out = append(out, v.String())
				break
			}
		}
	}
	return out
}

// NewBackend builds the backend selected by analysis.provider. A missing
// credential is reported as a *model.ConfigError.
func NewBackend(cfg *config.Config) (Backend, error) {
	temp := cfg.Analysis.Temperature
	switch cfg.Analysis.Provider {
	case config.AnalysisOpenAI:
		if cfg.OpenAI.Key == "" {
			return nil, &model.ConfigError{Missing: []string{"openai.key"}}
		}
		client := openai.NewClient(cfg.OpenAI.Key, openai.WithBaseURL(cfg.OpenAI.BaseURL), openai.WithModel(cfg.OpenAI.Model))
		return NewSingleShot(config.AnalysisOpenAI, &OpenAICompleter{
			Client: client, Model: cfg.OpenAI.Model, MaxTokens: cfg.Analysis.MaxTokens, Temperature: temp,
		}), nil
	case config.AnalysisAnthropic:
		if cfg.Anthropic.Key == "" {
			return nil, &model.ConfigError{Missing: []string{"anthropic.key"}}
		}
		return NewSingleShot(config.AnalysisAnthropic, &AnthropicCompleter{
			Client: anthropic.NewClient(cfg.Anthropic.Key), Model: cfg.Anthropic.Model,
			MaxTokens: cfg.Analysis.MaxTokens, Temperature: temp,
		}), nil
	case config.AnalysisQwen:
		if cfg.DashScope.Key == "" {
			return nil, &model.ConfigError{Missing: []string{"dashscope.key"}}
		}
		client := dashscope.NewClient(cfg.DashScope.Key, dashscope.WithBaseURL(cfg.DashScope.BaseURL))
		return NewStreaming(config.AnalysisQwen, cfg.DashScope.Model, &DashScopeStreamer{
			Client: client, Model: cfg.DashScope.Model, MaxTokens: cfg.Analysis.MaxTokens,
			Temperature: temp, TopP: cfg.DashScope.TopP,
		}), nil
	default:
		return nil, &model.ConfigError{Invalid: []string{"analysis.provider must be openai, anthropic or qwen"}}
	}
}

// OpenAICompleter adapts pkg/openai to Completer.
type OpenAICompleter struct {
	Client      openai.Client
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (Completion, error) {
	resp, err := c.Client.ChatCompletion(ctx, openai.ChatRequest{
		Model:       c.Model,
		System:      system,
		Prompt:      prompt,
		MaxTokens:   c.MaxTokens,
		Temperature: &c.Temperature,
	})
	if err != nil {
		return Completion{}, eris.Wrap(err, "analysis: openai completion")
	}
	return Completion{
		Text: resp.Content,
		Usage: model.TokenUsage{
			Model:        firstNonEmpty(resp.Model, c.Model),
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// AnthropicCompleter adapts pkg/anthropic to Completer.
type AnthropicCompleter struct {
	Client      anthropic.Client
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Complete implements Completer.
func (c *AnthropicCompleter) Complete(ctx context.Context, system, prompt string) (Completion, error) {
	resp, err := c.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &c.Temperature,
	})
	if err != nil {
		return Completion{}, eris.Wrap(err, "analysis: anthropic message")
	}
	resp.Usage.LogCost(c.Model, "analysis")
	return Completion{
		Text: resp.Text(),
		Usage: model.TokenUsage{
			Model:        firstNonEmpty(resp.Model, c.Model),
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}

// DashScopeStreamer adapts pkg/dashscope to Streamer.
type DashScopeStreamer struct {
	Client      dashscope.Client
	Model       string
	MaxTokens   int64
	Temperature float64
	TopP        float64
}

// Stream implements Streamer.
func (s *DashScopeStreamer) Stream(ctx context.Context, system, prompt string) (dashscope.Stream, error) {
	req := dashscope.GenerationRequest{
		Model: s.Model,
		Messages: []dashscope.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: &s.Temperature,
		MaxTokens:   s.MaxTokens,
	}
	if s.TopP > 0 {
		req.TopP = &s.TopP
	}
	stream, err := s.Client.StreamGeneration(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: open dashscope stream")
	}
	return stream, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
