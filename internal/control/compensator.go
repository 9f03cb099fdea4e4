package control

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ltilab/internal/lti"
)

type Kind int

const (
	PI Kind = iota
	PD
	PID
)

func (k Kind) String() string {
	switch k {
	case PI:
		return "PI"
	case PD:
		return "PD"
	case PID:
		return "PID"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PI":
		return PI, nil
	case "PD":
		return PD, nil
	case "PID":
		return PID, nil
	default:
		return PI, fmt.Errorf("control: unknown compensator %q (want PI, PD or PID)", s)
	}
}

// Compensator holds gains; gains that do not apply to Kind are ignored.
type Compensator struct {
	Kind Kind
	Kp   float64
	Ki   float64
	Kd   float64
}

func (c Compensator) Validate() error {
	for name, v := range c.GetParams() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("control: gain %s is %v", name, v)
		}
	}
	if c.Kind < PI || c.Kind > PID {
		return fmt.Errorf("control: unknown compensator kind %d", int(c.Kind))
	}
	return nil
}

// TransferFunction returns PI (Kp s + Ki)/s, PD Kd s + Kp, or
// PID (Kd s² + Kp s + Ki)/s.
func (c Compensator) TransferFunction() (lti.TransferFunction, error) {
	if err := c.Validate(); err != nil {
		return lti.TransferFunction{}, err
	}
	switch c.Kind {
	case PI:
		return lti.New([]float64{c.Kp, c.Ki}, []float64{1, 0})
	case PD:
		return lti.New([]float64{c.Kd, c.Kp}, []float64{1})
	default:
		return lti.New([]float64{c.Kd, c.Kp, c.Ki}, []float64{1, 0})
	}
}

// GetParams returns the gains that apply to Kind.
func (c Compensator) GetParams() map[string]float64 {
	switch c.Kind {
	case PI:
		return map[string]float64{"Kp": c.Kp, "Ki": c.Ki}
	case PD:
		return map[string]float64{"Kp": c.Kp, "Kd": c.Kd}
	default:
		return map[string]float64{"Kp": c.Kp, "Ki": c.Ki, "Kd": c.Kd}
	}
}

// WithParam returns a copy with one gain changed.
func (c Compensator) WithParam(name string, value float64) (Compensator, error) {
	switch strings.ToLower(name) {
	case "kp":
		c.Kp = value
	case "ki":
		c.Ki = value
	case "kd":
		c.Kd = value
	default:
		return c, fmt.Errorf("control: unknown gain %q", name)
	}
	return c, nil
}

func (c Compensator) String() string {
	switch c.Kind {
	case PI:
		return fmt.Sprintf("PI(Kp=%g, Ki=%g)", c.Kp, c.Ki)
	case PD:
		return fmt.Sprintf("PD(Kp=%g, Kd=%g)", c.Kp, c.Kd)
	default:
		return fmt.Sprintf("PID(Kp=%g, Ki=%g, Kd=%g)", c.Kp, c.Ki, c.Kd)
	}
}
