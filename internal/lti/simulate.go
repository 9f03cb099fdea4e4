package lti

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/ltilab/internal/dynamo"
	"github.com/san-kum/ltilab/internal/integrators"
	"github.com/san-kum/ltilab/internal/metrics"
	"github.com/san-kum/ltilab/internal/secondorder"
)

const (
	DefaultStepDuration    = 20.0
	DefaultRampDuration    = 10.0
	DefaultDt              = 0.01
	DefaultIntegrator      = "rk4"
	DefaultDivergenceLimit = 1e6
)

// StepInput is a source of constant amplitude.
func StepInput(amplitude float64) dynamo.Source {
	return dynamo.SourceFunc(func(float64) float64 { return amplitude })
}

// RampInput is a source of constant slope starting at zero.
func RampInput(slope float64) dynamo.Source {
	return dynamo.SourceFunc(func(t float64) float64 { return slope * t })
}

// SimOptions configures Simulate. Zero values select defaults.
type SimOptions struct {
	Input      secondorder.Input
	Amplitude  float64 // 0 means 1
	Duration   float64
	Dt         float64
	Integrator string
	// DivergenceLimit bounds |y| before a response counts as diverged.
	DivergenceLimit float64
	// Metrics are observed in addition to the built-in bound check.
	Metrics []dynamo.Metric
}

func (o SimOptions) withDefaults() SimOptions {
	if o.Amplitude == 0 {
		o.Amplitude = 1
	}
	if o.Duration == 0 {
		o.Duration = DefaultStepDuration
		if o.Input == secondorder.Ramp {
			o.Duration = DefaultRampDuration
		}
	}
	if o.Dt == 0 {
		o.Dt = DefaultDt
	}
	if o.Integrator == "" {
		o.Integrator = DefaultIntegrator
	}
	if o.DivergenceLimit == 0 {
		o.DivergenceLimit = DefaultDivergenceLimit
	}
	return o
}

// Response is a simulated time response.
type Response struct {
	Times   []float64
	Values  []float64
	Inputs  []float64
	Metrics map[string]float64
	// Diverged is set when the output left the divergence bound or the
	// state became non-finite. Samples up to that point are kept.
	Diverged bool
}

// Simulate integrates the response of tf to a step or ramp from rest.
func Simulate(ctx context.Context, tf TransferFunction, opts SimOptions) (*Response, error) {
	opts = opts.withDefaults()

	ss, err := Realize(tf)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.ByName(opts.Integrator)
	if err != nil {
		return nil, err
	}

	src := StepInput(opts.Amplitude)
	if opts.Input == secondorder.Ramp {
		src = RampInput(opts.Amplitude)
	}

	sim := dynamo.New(ss, integ, src)
	bound := metrics.NewBounded(opts.DivergenceLimit)
	sim.AddMetric(bound)
	for _, m := range opts.Metrics {
		sim.AddMetric(m)
	}

	cfg := dynamo.DefaultConfig()
	cfg.Dt = opts.Dt
	cfg.Duration = opts.Duration
	cfg.Adaptive = integrators.IsAdaptive(opts.Integrator)
	if cfg.MaxDt < opts.Dt {
		cfg.MaxDt = opts.Dt
	}

	result, err := sim.Run(ctx, ss.ZeroState(), cfg)
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", tf, err)
	}

	resp := &Response{
		Times:   result.Times,
		Values:  result.Outputs,
		Inputs:  result.Inputs,
		Metrics: result.Metrics,
	}
	_, escaped := bound.Escaped()
	if escaped || errors.Is(result.Err(), dynamo.ErrInvalidState) {
		resp.Diverged = true
	} else if rerr := result.Err(); rerr != nil {
		return nil, fmt.Errorf("simulate %s: %w", tf, rerr)
	}
	return resp, nil
}

// StepInfo measures the step characteristics of a non-diverged response.
func (r *Response) StepInfo() (metrics.Info, error) {
	if r.Diverged {
		return metrics.Info{}, dynamo.ErrUnstable
	}
	return metrics.StepInfo(r.Times, r.Values)
}
