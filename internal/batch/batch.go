// Package batch runs scripted analysis scenarios from YAML files. Each
// analysis is independent, so a scenario runs them concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ltilab/internal/config"
	"github.com/san-kum/ltilab/internal/storage"
)

var ErrInvalidScenario = errors.New("batch: invalid scenario")

// Kind selects what an analysis computes.
type Kind string

const (
	KindAnalyze    Kind = "analyze"
	KindRouth      Kind = "routh"
	KindPoles      Kind = "poles"
	KindCompensate Kind = "compensate"
)

// Scenario is a named list of analyses.
type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Concurrency int        `yaml:"concurrency"`
	Analyses    []Analysis `yaml:"analyses"`
}

// Analysis is one entry of a scenario. Fields left empty fall back to the
// preset, then to config.DefaultConfig.
type Analysis struct {
	Name        string                   `yaml:"name"`
	Kind        Kind                     `yaml:"kind"`
	Preset      string                   `yaml:"preset"`
	Numerator   []float64                `yaml:"numerator"`
	Denominator []float64                `yaml:"denominator"`
	Loop        string                   `yaml:"loop"`
	Input       string                   `yaml:"input"`
	Controller  *config.ControllerConfig `yaml:"controller"`
	Save        bool                     `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if len(sc.Analyses) == 0 {
		return nil, fmt.Errorf("%w: no analyses", ErrInvalidScenario)
	}
	if sc.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency = %d", ErrInvalidScenario, sc.Concurrency)
	}
	for i := range sc.Analyses {
		a := &sc.Analyses[i]
		if a.Kind == "" {
			a.Kind = KindAnalyze
		}
		if a.Name == "" {
			a.Name = fmt.Sprintf("%s-%d", a.Kind, i+1)
		}
		switch a.Kind {
		case KindAnalyze, KindRouth, KindPoles, KindCompensate:
		default:
			return nil, fmt.Errorf("%w: analysis %q has unknown kind %q", ErrInvalidScenario, a.Name, a.Kind)
		}
	}
	return &sc, nil
}

// Resolve merges the analysis over its preset and validates the result.
func (a Analysis) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if a.Preset != "" {
		if cfg = config.GetPreset(a.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidScenario, a.Preset)
		}
	}
	if a.Numerator != nil {
		cfg.Numerator = a.Numerator
	}
	if a.Denominator != nil {
		cfg.Denominator = a.Denominator
	}
	if a.Loop != "" {
		cfg.Loop = a.Loop
	}
	if a.Input != "" {
		cfg.Input = a.Input
	}
	if a.Controller != nil {
		cfg.Controller = *a.Controller
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type Options struct {
	// Concurrency overrides the scenario's limit when positive.
	Concurrency int
	// Store receives analyses marked save. Nil disables saving.
	Store  *storage.Store
	Logger *log.Logger
}

// Result is the outcome of one analysis. Analysis errors are recorded in
// Err and do not stop the scenario.
type Result struct {
	Name    string
	Kind    Kind
	Report  string
	Stable  bool
	SavedID string
	Err     error
}

// Run executes every analysis of sc and returns results in scenario
// order. Only context cancellation aborts the run.
func Run(ctx context.Context, sc *Scenario, opts Options) ([]Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	limit := sc.Concurrency
	if opts.Concurrency > 0 {
		limit = opts.Concurrency
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(sc.Analyses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, a := range sc.Analyses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logger.Debug("running analysis", "name", a.Name, "kind", a.Kind)
			r := run(gctx, a, opts.Store)
			if r.Err != nil {
				if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
					return r.Err
				}
				logger.Warn("analysis failed", "name", a.Name, "err", r.Err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	logger.Info("scenario complete", "name", sc.Name, "analyses", len(results))
	return results, nil
}

// Summary counts successful and failed results.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	return
}
