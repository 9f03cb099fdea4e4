package secondorder

import (
	"fmt"
	"math"
	"strings"
)

type Loop int

const (
	ClosedLoop Loop = iota
	OpenLoop
)

func (l Loop) String() string {
	if l == OpenLoop {
		return "open"
	}
	return "closed"
}

func ParseLoop(s string) (Loop, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "closed", "fechada", "":
		return ClosedLoop, nil
	case "open", "aberta":
		return OpenLoop, nil
	default:
		return ClosedLoop, fmt.Errorf("secondorder: unknown loop type %q (want open or closed)", s)
	}
}

type Input int

const (
	Step Input = iota
	Ramp
)

func (i Input) String() string {
	if i == Ramp {
		return "ramp"
	}
	return "step"
}

func ParseInput(s string) (Input, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "step", "degrau", "":
		return Step, nil
	case "ramp", "rampa":
		return Ramp, nil
	default:
		return Step, fmt.Errorf("secondorder: unknown input type %q (want step or ramp)", s)
	}
}

// Regime is the damping classification of ζ.
type Regime int

const (
	Unstable Regime = iota
	Undamped
	Underdamped
	CriticallyDamped
	Overdamped
)

func (r Regime) String() string {
	switch r {
	case Unstable:
		return "unstable"
	case Undamped:
		return "undamped"
	case Underdamped:
		return "underdamped"
	case CriticallyDamped:
		return "critically damped"
	case Overdamped:
		return "overdamped"
	default:
		return "unknown"
	}
}

// Classify maps every real ζ to exactly one regime. NaN is Unstable.
func Classify(zeta float64) Regime {
	switch {
	case math.IsNaN(zeta) || zeta < 0:
		return Unstable
	case zeta == 0:
		return Undamped
	case zeta < 1:
		return Underdamped
	case zeta == 1:
		return CriticallyDamped
	default:
		return Overdamped
	}
}

// Quantity is a metric that may not apply to the current regime.
// Infinite metrics are Defined with Value = +Inf.
type Quantity struct {
	Value   float64
	Defined bool
}

func Defined(v float64) Quantity { return Quantity{Value: v, Defined: true} }

var Undefined = Quantity{}

func (q Quantity) IsInf() bool {
	return q.Defined && math.IsInf(q.Value, 0)
}

// Format renders the value with verb, "∞" for infinities, or na.
func (q Quantity) Format(verb, na string) string {
	switch {
	case !q.Defined:
		return na
	case math.IsInf(q.Value, 1):
		return "∞"
	case math.IsInf(q.Value, -1):
		return "-∞"
	default:
		return fmt.Sprintf(verb, q.Value)
	}
}
