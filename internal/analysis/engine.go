package analysis

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/model"
)

// MinReportLength is the shortest model answer, in characters after
// trimming, accepted as a report.
const MinReportLength = 100

// NotInitializedPrefix starts the text returned when no backend is configured.
const NotInitializedPrefix = "agent not initialized"

// Report is the outcome of one analysis.
type Report struct {
	Text     string           `json:"text" yaml:"text"`
	Backend  string           `json:"backend" yaml:"backend"`
	Fallback bool             `json:"fallback" yaml:"fallback"`
	Usage    model.TokenUsage `json:"usage" yaml:"usage"`
}

// Engine runs the analysis against one backend.
type Engine struct {
	backend Backend
	name    string
}

// NewEngine returns an engine using backend. name labels the backend when
// it is nil so the returned text can say what is missing.
func NewEngine(backend Backend, name string) *Engine {
	if backend != nil {
		name = backend.Name()
	}
	return &Engine{backend: backend, name: name}
}

// Analyze produces a report for records. The only error is an empty
// record list; backend failures and short answers yield the fallback.
func (e *Engine) Analyze(ctx context.Context, records []model.Competitor) (*Report, error) {
	if len(records) == 0 {
		return nil, &model.EmptyResultError{Stage: "analysis"}
	}

	log := zap.L().With(zap.String("backend", e.name), zap.Int("competitors", len(records)))

	if e.backend == nil {
		log.Warn("analysis: backend not initialized")
		return &Report{
			Text:    NotInitializedPrefix + ": check the " + e.name + " analysis backend credentials",
			Backend: e.name,
		}, nil
	}

	prompt, err := BuildPrompt(records)
	if err != nil {
		log.Error("analysis: build prompt", zap.Error(err))
		return e.fallback(records), nil
	}

	start := time.Now()
	c, err := e.backend.Generate(ctx, prompt)
	if err != nil {
		log.Warn("analysis: backend failed, using fallback", zap.Error(err))
		return e.fallback(records), nil
	}

	text := strings.TrimSpace(c.Text)
	if len([]rune(text)) < MinReportLength {
		log.Warn("analysis: answer too short, using fallback", zap.Int("length", len([]rune(text))))
		r := e.fallback(records)
		r.Usage = c.Usage
		return r, nil
	}
	if c.Streamed {
		text = CleanDuplicates(text)
	}

	log.Info("analysis: complete",
		zap.Int64("input_tokens", c.Usage.InputTokens),
		zap.Int64("output_tokens", c.Usage.OutputTokens),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return &Report{Text: text, Backend: e.name, Usage: c.Usage}, nil
}

func (e *Engine) fallback(records []model.Competitor) *Report {
	return &Report{
		Text:     Fallback(records, BackendNote(e.name)),
		Backend:  e.name,
		Fallback: true,
	}
}
