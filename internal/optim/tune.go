package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ltilab/internal/control"
	"github.com/san-kum/ltilab/internal/dynamo"
	"github.com/san-kum/ltilab/internal/lti"
	"github.com/san-kum/ltilab/internal/metrics"
)

// Tuning searches compensator gains for a plant in unity feedback.
type Tuning struct {
	Plant lti.TransferFunction
	Base  control.Compensator
	// Ranges maps gain names (Kp, Ki, Kd) to the values tried. Gains
	// not listed keep the Base value.
	Ranges map[string][]float64
	// Criterion is iae, ise or itae.
	Criterion   string
	Sim         lti.SimOptions
	Concurrency int
	Logger      *log.Logger
}

type TuneResult struct {
	Compensator control.Compensator
	Cost        float64
	Evaluated   int
	Discarded   int
}

// Tune grid-searches the gains and returns the compensator with the lowest
// tracking-error integral. Diverging loops are discarded.
func Tune(ctx context.Context, t Tuning) (*TuneResult, error) {
	if _, ok := metrics.ByName(t.Criterion); !ok {
		return nil, fmt.Errorf("optim: unknown criterion %q (want iae, ise or itae)", t.Criterion)
	}
	names := make([]string, 0, len(t.Ranges))
	ranges := make([][]float64, 0, len(t.Ranges))
	for _, name := range []string{"Kp", "Ki", "Kd"} {
		if r, ok := t.Ranges[name]; ok {
			names = append(names, name)
			ranges = append(ranges, r)
		}
	}
	if len(names) != len(t.Ranges) {
		return nil, fmt.Errorf("optim: ranges must name Kp, Ki or Kd, got %v", keys(t.Ranges))
	}
	gs := NewGridSearch(names, ranges).WithConcurrency(t.Concurrency)
	if t.Logger != nil {
		gs = gs.WithLogger(t.Logger)
	}

	res, err := gs.Search(ctx, func(ctx context.Context, params map[string]float64) (float64, error) {
		comp, err := apply(t.Base, params)
		if err != nil {
			return 0, err
		}
		return loopCost(ctx, t.Plant, comp, t.Criterion, t.Sim)
	})
	if err != nil {
		return nil, err
	}
	comp, err := apply(t.Base, res.Params)
	if err != nil {
		return nil, err
	}
	return &TuneResult{Compensator: comp, Cost: res.Cost, Evaluated: res.Evaluated, Discarded: res.Discarded}, nil
}

func apply(c control.Compensator, params map[string]float64) (control.Compensator, error) {
	for name, v := range params {
		var err error
		if c, err = c.WithParam(name, v); err != nil {
			return c, err
		}
	}
	return c, nil
}

// loopCost simulates Feedback(comp·plant) and returns the criterion, or
// +Inf when the loop diverges.
func loopCost(ctx context.Context, plant lti.TransferFunction, comp control.Compensator, criterion string, opts lti.SimOptions) (float64, error) {
	gc, err := comp.TransferFunction()
	if err != nil {
		return 0, err
	}
	closed, err := lti.Feedback(lti.Series(gc, plant))
	if err != nil {
		return 0, err
	}
	m, _ := metrics.ByName(criterion)
	opts.Metrics = append([]dynamo.Metric{m}, opts.Metrics...)
	resp, err := lti.Simulate(ctx, closed, opts)
	if err != nil {
		return 0, err
	}
	if resp.Diverged {
		return math.Inf(1), nil
	}
	return resp.Metrics[m.Name()], nil
}

func keys(m map[string][]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
