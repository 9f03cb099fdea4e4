package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ltilab/internal/control"
	"github.com/san-kum/ltilab/internal/integrators"
	"github.com/san-kum/ltilab/internal/lti"
	"github.com/san-kum/ltilab/internal/routh"
	"github.com/san-kum/ltilab/internal/secondorder"
)

const (
	DefaultPoints     = secondorder.DefaultPoints
	DefaultEpsilon    = routh.DefaultEpsilon
	DefaultController = "PI"
	DefaultKp         = 1.0
	DefaultKi         = 0.5
	DefaultKd         = 0.1
	DefaultDt         = lti.DefaultDt
	DefaultIntegrator = lti.DefaultIntegrator
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Numerator   []float64        `yaml:"numerator"`
	Denominator []float64        `yaml:"denominator"`
	Loop        string           `yaml:"loop"`
	Input       string           `yaml:"input"`
	Points      int              `yaml:"points"`
	Horizon     float64          `yaml:"horizon"`
	Routh       RouthConfig      `yaml:"routh"`
	Controller  ControllerConfig `yaml:"controller"`
	Simulation  SimulationConfig `yaml:"simulation"`
}

type RouthConfig struct {
	Epsilon float64 `yaml:"epsilon"`
}

type ControllerConfig struct {
	Type string  `yaml:"type"`
	Kp   float64 `yaml:"kp"`
	Ki   float64 `yaml:"ki"`
	Kd   float64 `yaml:"kd"`
}

// SimulationConfig drives numerical responses. Duration 0 picks the
// per-input default.
type SimulationConfig struct {
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Integrator string  `yaml:"integrator"`
}

func DefaultConfig() *Config {
	return &Config{
		Numerator:   []float64{4},
		Denominator: []float64{1, 0.8, 4},
		Loop:        "closed",
		Input:       "step",
		Points:      DefaultPoints,
		Routh:       RouthConfig{Epsilon: DefaultEpsilon},
		Controller: ControllerConfig{
			Type: DefaultController,
			Kp:   DefaultKp,
			Ki:   DefaultKi,
			Kd:   DefaultKd,
		},
		Simulation: SimulationConfig{
			Dt:         DefaultDt,
			Integrator: DefaultIntegrator,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Numerator = append([]float64(nil), c.Numerator...)
	cp.Denominator = append([]float64(nil), c.Denominator...)
	return &cp
}

// Validate checks names and ranges. Coefficients are checked when the
// transfer function is built.
func (c *Config) Validate() error {
	if _, err := secondorder.ParseLoop(c.Loop); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := secondorder.ParseInput(c.Input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Controller.Type != "" {
		if _, err := control.ParseKind(c.Controller.Type); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if c.Simulation.Integrator != "" {
		if _, err := integrators.ByName(c.Simulation.Integrator); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	switch {
	case c.Points < 0 || c.Points == 1:
		return fmt.Errorf("%w: points = %d", ErrInvalidConfig, c.Points)
	case c.Horizon < 0:
		return fmt.Errorf("%w: horizon = %g", ErrInvalidConfig, c.Horizon)
	case c.Routh.Epsilon < 0:
		return fmt.Errorf("%w: routh.epsilon = %g", ErrInvalidConfig, c.Routh.Epsilon)
	case c.Simulation.Dt < 0:
		return fmt.Errorf("%w: simulation.dt = %g", ErrInvalidConfig, c.Simulation.Dt)
	case c.Simulation.Duration < 0:
		return fmt.Errorf("%w: simulation.duration = %g", ErrInvalidConfig, c.Simulation.Duration)
	}
	return nil
}

func (c *Config) TransferFunction() (lti.TransferFunction, error) {
	return lti.New(c.Numerator, c.Denominator)
}

// LoopType and InputType ignore parse errors: every Config built by Parse,
// Load or the CLI has passed Validate, which rejects unknown names.
func (c *Config) LoopType() secondorder.Loop {
	l, _ := secondorder.ParseLoop(c.Loop)
	return l
}

func (c *Config) InputType() secondorder.Input {
	in, _ := secondorder.ParseInput(c.Input)
	return in
}

func (c *Config) SampleOptions() secondorder.SampleOptions {
	return secondorder.SampleOptions{Horizon: c.Horizon, Points: c.Points}
}

// RouthOptions maps an unset epsilon to the default.
func (c *Config) RouthOptions() routh.Options {
	eps := c.Routh.Epsilon
	if eps == 0 {
		eps = DefaultEpsilon
	}
	return routh.Options{Epsilon: eps}
}

func (c *Config) Compensator() (control.Compensator, error) {
	typ := c.Controller.Type
	if typ == "" {
		typ = DefaultController
	}
	kind, err := control.ParseKind(typ)
	if err != nil {
		return control.Compensator{}, err
	}
	return control.Compensator{
		Kind: kind,
		Kp:   c.Controller.Kp,
		Ki:   c.Controller.Ki,
		Kd:   c.Controller.Kd,
	}, nil
}

func (c *Config) SimOptions() lti.SimOptions {
	return lti.SimOptions{
		Input:      c.InputType(),
		Duration:   c.Simulation.Duration,
		Dt:         c.Simulation.Dt,
		Integrator: c.Simulation.Integrator,
	}
}
