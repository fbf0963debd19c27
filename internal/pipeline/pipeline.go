// Package pipeline drives one competitor research run from seed to report.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-cli/internal/analysis"
	"github.com/sells-group/competitor-cli/internal/config"
	"github.com/sells-group/competitor-cli/internal/cost"
	"github.com/sells-group/competitor-cli/internal/discovery"
	"github.com/sells-group/competitor-cli/internal/extract"
	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/internal/report"
)

// State is the controller's position in a run.
type State string

const (
	StateIdle        State = "idle"
	StateDiscovering State = "discovering"
	StateExtracting  State = "extracting"
	StateComposing   State = "composing"
	StateAnalyzing   State = "analyzing"
	StateDone        State = "done"
	StateAborted     State = "aborted"
)

// Abort messages.
const (
	MsgNoCompetitors = "no competitors found"
	MsgNoRecords     = "no competitor data could be extracted"
)

// FallbackNote closes the report substituted by the controller.
const FallbackNote = "Note: this is a basic version of the report, generated without model output."

// Notifier receives user-facing progress messages.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// Analyzer produces the strategy report.
type Analyzer interface {
	Analyze(ctx context.Context, records []model.Competitor) (*analysis.Report, error)
}

// Failure records one URL that could not be extracted.
type Failure struct {
	URL   string `json:"url" yaml:"url"`
	Error string `json:"error" yaml:"error"`
}

// Result is everything a run produced.
type Result struct {
	RunID    string              `json:"run_id" yaml:"run_id"`
	Seed     model.Seed          `json:"seed" yaml:"seed"`
	State    State               `json:"state" yaml:"state"`
	Message  string              `json:"message,omitempty" yaml:"message,omitempty"`
	States   []State             `json:"states" yaml:"states"`
	URLs     []string            `json:"urls" yaml:"urls"`
	Records  []model.Competitor  `json:"records" yaml:"records"`
	Failures []Failure           `json:"failures,omitempty" yaml:"failures,omitempty"`
	Table    report.Table        `json:"table" yaml:"table"`
	Details  []report.Detail     `json:"details" yaml:"details"`
	Report   *analysis.Report    `json:"report,omitempty" yaml:"report,omitempty"`
	Phases   []model.PhaseResult `json:"phases" yaml:"phases"`
	Usage    model.RunUsage      `json:"usage" yaml:"usage"`
	Cost     cost.Breakdown      `json:"cost" yaml:"cost"`

	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Duration  int64     `json:"duration_ms" yaml:"duration_ms"`
}

// Pipeline is the run controller. A Pipeline runs one seed at a time.
type Pipeline struct {
	cfg        *config.Config
	discoverer discovery.Discoverer
	extractor  extract.Extractor
	analyzer   Analyzer
	costCalc   *cost.Calculator

	mu    sync.Mutex
	state State
}

// New creates a Pipeline with all dependencies.
func New(cfg *config.Config, d discovery.Discoverer, x extract.Extractor, a Analyzer) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		discoverer: d,
		extractor:  x,
		analyzer:   a,
		costCalc:   cost.NewCalculator(cost.DefaultRates()),
		state:      StateIdle,
	}
}

// State returns the current controller state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Run executes discovery, extraction, composition and analysis for seed.
// Configuration and input errors are returned before any provider call;
// provider failures are reported through n and never returned.
func (p *Pipeline) Run(ctx context.Context, seed model.Seed, n Notifier) (*Result, error) {
	p.setState(nil, StateIdle)

	if err := p.cfg.Validate(); err != nil {
		n.Error(err.Error())
		return nil, err
	}
	seed = seed.Trimmed()
	if seed.Empty() {
		err := &model.InputError{}
		n.Error(err.Error())
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Seed:      seed,
		Usage:     model.RunUsage{SearchProvider: p.discoverer.Name()},
		StartedAt: time.Now().UTC(),
	}
	log := zap.L().With(zap.String("run_id", result.RunID), zap.String("search", p.discoverer.Name()))
	log.Info("pipeline: starting run", zap.String("url", seed.URL))

	trackPhase := func(name string, fn func() (map[string]any, error)) {
		start := time.Now()
		meta, err := fn()
		pr := model.PhaseResult{
			Name:     name,
			Status:   model.PhaseStatusComplete,
			Duration: time.Since(start).Milliseconds(),
			Metadata: meta,
		}
		if err != nil {
			pr.Status = model.PhaseStatusFailed
			pr.Error = err.Error()
			log.Error("pipeline: phase failed", zap.String("phase", name), zap.Int64("duration_ms", pr.Duration), zap.Error(err))
		} else {
			log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", pr.Duration))
		}
		result.Phases = append(result.Phases, pr)
	}

	// ===== Discovering =====
	p.setState(result, StateDiscovering)
	n.Info("Searching for competitors...")
	trackPhase("discover", func() (map[string]any, error) {
		urls, err := p.discoverer.Discover(ctx, seed)
		result.Usage.SearchQueries++
		if err != nil {
			n.Error("Competitor search failed: " + err.Error())
			return nil, err
		}
		result.URLs = urls
		return map[string]any{"urls": len(urls)}, nil
	})
	if len(result.URLs) == 0 {
		return p.abort(result, n, MsgNoCompetitors), nil
	}
	n.Info(fmt.Sprintf("Found %d competitor URLs", len(result.URLs)))

	// ===== Extracting =====
	p.setState(result, StateExtracting)
	trackPhase("extract", func() (map[string]any, error) {
		for _, u := range result.URLs {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "pipeline: extract")
			}
			n.Info("Extracting " + u)
			rec, err := p.extractor.Extract(ctx, u)
			result.Usage.Extractions++
			if err != nil {
				log.Warn("pipeline: extraction failed", zap.String("url", u), zap.Error(err))
				result.Failures = append(result.Failures, Failure{URL: u, Error: err.Error()})
				n.Warn(fmt.Sprintf("Could not extract %s: %v", u, err))
				continue
			}
			result.Records = append(result.Records, *rec)
			n.Success("Extracted " + rec.DisplayName(len(result.Records)))
		}
		return map[string]any{"records": len(result.Records), "failures": len(result.Failures)}, nil
	})
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run canceled")
	}
	if len(result.Records) == 0 {
		return p.abort(result, n, MsgNoRecords), nil
	}
	n.Success(fmt.Sprintf("Analyzed %d/%d competitors", len(result.Records), len(result.URLs)))

	// ===== Composing =====
	p.setState(result, StateComposing)
	result.Table = report.ComposeTable(result.Records)
	result.Details = report.ComposeDetails(result.Records)

	// ===== Analyzing =====
	p.setState(result, StateAnalyzing)
	n.Info("Generating analysis report...")
	trackPhase("analyze", func() (map[string]any, error) {
		rep, err := p.analyzer.Analyze(ctx, result.Records)
		if err == nil && rep == nil {
			err = eris.New("pipeline: analyzer returned no report")
		}
		if err != nil {
			n.Warn("Analysis failed, showing the basic report")
			result.Report = p.fallback(result.Records, "")
			return nil, err
		}
		result.Report = rep
		return map[string]any{"backend": rep.Backend, "fallback": rep.Fallback}, nil
	})

	// ===== Done =====
	if NeedsFallback(result.Report.Text) {
		n.Warn("Analysis unavailable, showing the basic report")
		result.Report = p.fallback(result.Records, result.Report.Backend)
	}
	result.Usage.Analysis = result.Report.Usage
	result.Cost = p.costCalc.Run(result.Usage)
	log.Info("pipeline: run cost",
		zap.Float64("search", result.Cost.Search),
		zap.Float64("extraction", result.Cost.Extraction),
		zap.Float64("analysis", result.Cost.Analysis),
		zap.Float64("total", result.Cost.Total),
	)

	result.Duration = time.Since(result.StartedAt).Milliseconds()
	p.setState(result, StateDone)
	n.Success(fmt.Sprintf("Analysis complete: %d competitors", len(result.Records)))
	return result, nil
}

// NeedsFallback reports whether text is unusable as a report.
func NeedsFallback(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "" ||
		strings.HasPrefix(t, "analysis error") ||
		strings.HasPrefix(t, analysis.NotInitializedPrefix)
}

func (p *Pipeline) fallback(records []model.Competitor, backend string) *analysis.Report {
	return &analysis.Report{
		Text:     analysis.Fallback(records, FallbackNote),
		Backend:  backend,
		Fallback: true,
	}
}

func (p *Pipeline) abort(result *Result, n Notifier, msg string) *Result {
	result.Message = msg
	result.Cost = p.costCalc.Run(result.Usage)
	result.Duration = time.Since(result.StartedAt).Milliseconds()
	p.setState(result, StateAborted)
	n.Warn(msg)
	zap.L().Info("pipeline: run aborted", zap.String("run_id", result.RunID), zap.String("reason", msg))
	return result
}

func (p *Pipeline) setState(result *Result, s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	if result != nil {
		result.State = s
		result.States = append(result.States, s)
	}
}
