package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	sys        System
	plant      System
	integrator Integrator
	source     Source
	metrics    []Metric
	observers  []Observer
}

// New returns a Simulator. A nil source applies zero input.
func New(sys System, integrator Integrator, source Source) *Simulator {
	if source == nil {
		source = SourceFunc(func(float64) float64 { return 0 })
	}
	return &Simulator{
		sys:        sys,
		plant:      driven{System: sys, src: source},
		integrator: integrator,
		source:     source,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

// driven evaluates the source at every integrator stage, so time-varying
// inputs are not held constant across a step.
type driven struct {
	System
	src Source
}

func (d driven) Derive(x State, _ Control, t float64) State {
	return d.System.Derive(x, d.src.Compute(x, t), t)
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 over [0, cfg.Duration]. Invalid states stop the
// run early and are recorded in Result.Errors; the partial result is kept.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		States:  make([]State, 0, steps+1),
		Inputs:  make([]float64, 0, steps+1),
		Outputs: make([]float64, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		u := s.source.Compute(x, t)
		s.record(result, Sample{T: t, X: x.Clone(), U: u, Y: s.sys.Output(x, u)})

		if cfg.Adaptive {
			if t >= cfg.Duration-1e-12 {
				break
			}
			dt = math.Min(dt, cfg.Duration-t)
		} else if i == steps {
			break
		}

		var next State
		taken := dt
		if cfg.Adaptive {
			var err error
			next, taken, dt, err = s.adaptiveStep(x, u, t, dt, cfg)
			if err != nil {
				result.Errors = append(result.Errors, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: err})
				break
			}
		} else {
			next = s.integrator.Step(s.plant, x, u, t, dt)
		}

		if cfg.ValidateState && !next.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrInvalidState})
			break
		}

		x = next
		result.StepsTaken++
		if cfg.Adaptive {
			t += taken
		} else {
			t = float64(i+1) * cfg.Dt
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) record(r *Result, smp Sample) {
	r.States = append(r.States, smp.X)
	r.Inputs = append(r.Inputs, smp.U.Scalar())
	r.Outputs = append(r.Outputs, smp.Y)
	r.Times = append(r.Times, smp.T)
	for _, m := range s.metrics {
		m.Observe(smp)
	}
	for _, obs := range s.observers {
		obs.OnStep(smp)
	}
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrParameterBounds, cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrParameterBounds)
	}
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("%w: state has %d entries, system has %d", ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}
	return nil
}

func (s *Simulator) adaptiveStep(x State, u Control, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		next, taken, suggested, err := adaptive.StepAdaptive(s.plant, x, u, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, 0, 0, err
		}
		if taken < dt && taken < cfg.MinDt {
			return nil, 0, 0, ErrStepTooSmall
		}
		return next, taken, clampDt(suggested, cfg), nil
	}

	// Step doubling for fixed-step integrators.
	for {
		x1 := s.integrator.Step(s.plant, x, u, t, dt)
		xHalf := s.integrator.Step(s.plant, x, u, t, dt/2)
		x2 := s.integrator.Step(s.plant, xHalf, u, t+dt/2, dt/2)

		err := x1.Sub(x2).Norm()
		if err > cfg.Tolerance {
			if dt/2 < cfg.MinDt {
				return nil, 0, 0, ErrStepTooSmall
			}
			dt /= 2
			continue
		}
		suggested := dt
		if err < cfg.Tolerance/10 {
			suggested = dt * 2
		}
		return x2, dt, clampDt(suggested, cfg), nil
	}
}

func clampDt(dt float64, cfg Config) float64 {
	if cfg.MaxDt > 0 && dt > cfg.MaxDt {
		return cfg.MaxDt
	}
	return dt
}

// RunWithCallback streams samples to callback until it returns false or
// the duration elapses. Nothing is retained.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(Sample) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	steps := int(cfg.Duration/cfg.Dt + 1e-9)

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		t := float64(i) * cfg.Dt
		u := s.source.Compute(x, t)
		if !callback(Sample{T: t, X: x, U: u, Y: s.sys.Output(x, u)}) {
			return nil
		}
		if i == steps {
			break
		}

		x = s.integrator.Step(s.plant, x, u, t, cfg.Dt)
		if cfg.ValidateState && !x.IsValid() {
			return &SimulationError{Step: i, Time: t, State: x, Wrapped: ErrInvalidState}
		}
	}

	return nil
}
