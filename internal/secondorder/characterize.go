package secondorder

import (
	"math"
)

// Characteristics are the analytic time-domain metrics of a second-order
// system for one loop and input configuration.
type Characteristics struct {
	Params Params
	Loop   Loop
	Input  Input

	Regime Regime
	Poles  [2]complex128

	Wd               Quantity
	RiseTime         Quantity
	PeakTime         Quantity
	Overshoot        Quantity // percent
	SettlingTime2    Quantity
	SettlingTime5    Quantity
	SteadyStateError Quantity

	// FinalValue is the limit of the response; ±Inf for ramps.
	FinalValue   Quantity
	TimeConstant Quantity // ζ >= 1
	Period       Quantity // ζ == 0
	DecayRate    Quantity // ζωn, ζ > 0
}

// Poles returns the pole pair. For complex pairs the positive imaginary
// part comes first; for real pairs the slower pole comes first.
func Poles(p Params) [2]complex128 {
	re := -p.Zeta * p.Wn
	az := math.Abs(p.Zeta)
	switch {
	case az < 1:
		im := p.Wn * math.Sqrt(1-p.Zeta*p.Zeta)
		return [2]complex128{complex(re, im), complex(re, -im)}
	case az == 1:
		return [2]complex128{complex(re, 0), complex(re, 0)}
	default:
		d := p.Wn * math.Sqrt(p.Zeta*p.Zeta-1)
		return [2]complex128{complex(re+d, 0), complex(re-d, 0)}
	}
}

// Characterize computes every metric that applies to p's regime.
func Characterize(p Params, loop Loop, input Input) Characteristics {
	z, wn := p.Zeta, p.Wn
	c := Characteristics{
		Params: p,
		Loop:   loop,
		Input:  input,
		Regime: Classify(z),
		Poles:  Poles(p),
	}

	if math.Abs(z) < 1 {
		c.Wd = Defined(wn * math.Sqrt(1-z*z))
	}

	switch c.Regime {
	case Underdamped:
		wd := c.Wd.Value
		c.RiseTime = Defined((math.Pi - math.Atan2(math.Sqrt(1-z*z), z)) / wd)
		c.PeakTime = Defined(math.Pi / wd)
		c.Overshoot = Defined(100 * math.Exp(-math.Pi*z/math.Sqrt(1-z*z)))
	case Undamped:
		c.RiseTime = Defined(math.Pi / (2 * wn))
		c.PeakTime = Defined(math.Pi / wn)
		c.Overshoot = Defined(math.Inf(1))
		c.Period = Defined(2 * math.Pi / wn)
	case CriticallyDamped:
		c.RiseTime = Defined(2.2 / wn)
		c.Overshoot = Defined(0)
		c.TimeConstant = Defined(1 / (z * wn))
	case Overdamped:
		// 2.2/(ζωn) approximates the 10-90% rise of the slow pole.
		c.RiseTime = Defined(2.2 / (z * wn))
		c.Overshoot = Defined(0)
		c.TimeConstant = Defined(1 / (z * wn))
	}

	if z > 0 {
		c.SettlingTime2 = Defined(4 / (z * wn))
		c.SettlingTime5 = Defined(3 / (z * wn))
		c.DecayRate = Defined(z * wn)
		c.FinalValue = finalValue(p.Gain, input)
		c.SteadyStateError = steadyStateError(p, loop, input)
	}

	return c
}

func finalValue(gain float64, input Input) Quantity {
	if input == Step || gain == 0 {
		return Defined(gain)
	}
	return Defined(math.Copysign(math.Inf(1), gain))
}

// steadyStateError is only meaningful for a convergent closed loop.
func steadyStateError(p Params, loop Loop, input Input) Quantity {
	if loop == OpenLoop {
		return Undefined
	}
	if input == Step {
		return Defined(math.Abs(1 - p.Gain))
	}
	kv := p.Gain * p.Wn * p.Wn
	if kv == 0 {
		return Defined(math.Inf(1))
	}
	return Defined(1 / kv)
}

// Stable reports whether the response converges (ζ > 0).
func (c Characteristics) Stable() bool {
	return c.Regime != Unstable && c.Regime != Undamped
}
