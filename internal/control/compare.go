package control

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/ltilab/internal/lti"
	"github.com/san-kum/ltilab/internal/metrics"
	"github.com/san-kum/ltilab/internal/secondorder"
)

// Case is one simulated configuration of a comparison.
type Case struct {
	System   lti.TransferFunction
	Response *lti.Response
	// Info is only valid for non-diverged step responses.
	Info     metrics.Info
	InfoErr  error
	Dominant lti.Mode
	HasMode  bool
}

// Comparison is the plant alone versus the compensated unity loop.
type Comparison struct {
	Compensator Compensator
	Input       secondorder.Input
	Plant       Case
	Compensated Case
}

func Compare(ctx context.Context, plant lti.TransferFunction, comp Compensator, opts lti.SimOptions) (*Comparison, error) {
	gc, err := comp.TransferFunction()
	if err != nil {
		return nil, err
	}
	closed, err := lti.Feedback(lti.Series(gc, plant))
	if err != nil {
		return nil, fmt.Errorf("compensated loop: %w", err)
	}
	plantLoop, err := lti.Feedback(plant)
	if err != nil {
		return nil, fmt.Errorf("plant loop: %w", err)
	}

	cmp := &Comparison{Compensator: comp, Input: opts.Input}
	if cmp.Plant, err = simulateCase(ctx, plant, plantLoop, opts); err != nil {
		return nil, fmt.Errorf("plant: %w", err)
	}
	if cmp.Compensated, err = simulateCase(ctx, closed, closed, opts); err != nil {
		return nil, fmt.Errorf("compensated: %w", err)
	}
	return cmp, nil
}

// simulateCase runs sys and takes the dominant mode from modeOf.
func simulateCase(ctx context.Context, sys, modeOf lti.TransferFunction, opts lti.SimOptions) (Case, error) {
	resp, err := lti.Simulate(ctx, sys, opts)
	if err != nil {
		return Case{}, err
	}
	c := Case{System: sys, Response: resp}
	if opts.Input == secondorder.Step {
		c.Info, c.InfoErr = resp.StepInfo()
	}
	if m, ok, err := modeOf.Dominant(); err == nil && ok {
		c.Dominant, c.HasMode = m, true
	}
	return c, nil
}

func (c *Comparison) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Compensator: %s\n", c.Compensator)
	fmt.Fprintf(&sb, "Input: %s\n\n", c.Input)
	writeCase(&sb, "Plant (open loop)", c.Plant, c.Input)
	sb.WriteString("\n")
	writeCase(&sb, "With compensator (closed loop)", c.Compensated, c.Input)
	sb.WriteString("\n")
	sb.WriteString(lti.PoleZeroReport("SYSTEM WITH COMPENSATOR", c.Compensated.System))
	return sb.String()
}

func writeCase(sb *strings.Builder, title string, c Case, input secondorder.Input) {
	fmt.Fprintf(sb, "%s: %s\n", title, c.System)
	if c.HasMode {
		fmt.Fprintf(sb, "  dominant ωn = %.4f rad/s, ζ = %.4f\n", c.Dominant.Wn, c.Dominant.Zeta)
	}
	switch {
	case c.Response.Diverged:
		sb.WriteString("  response diverges\n")
	case input == secondorder.Ramp:
		last := len(c.Response.Values) - 1
		fmt.Fprintf(sb, "  y(%.1f) = %.4f, tracking error %.4f\n",
			c.Response.Times[last], c.Response.Values[last], c.Response.Inputs[last]-c.Response.Values[last])
	case c.InfoErr != nil:
		fmt.Fprintf(sb, "  metrics unavailable: %v\n", c.InfoErr)
	default:
		i := c.Info
		fmt.Fprintf(sb, "  final value %.4f, peak %.4f at %.4f s\n", i.FinalValue, i.Peak, i.PeakTime)
		fmt.Fprintf(sb, "  overshoot %.2f%%, rise %.4f s, settling %.4f s\n", i.Overshoot, i.RiseTime, i.SettlingTime)
		fmt.Fprintf(sb, "  steady-state error %.4f\n", 1-i.FinalValue)
	}
}
