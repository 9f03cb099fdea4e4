package secondorder

import (
	"fmt"
	"iter"
	"math"
)

const (
	DefaultPoints          = 1000
	DefaultFallbackHorizon = 10.0 // seconds, used when ζ <= 0
)

// SampleOptions controls trajectory sampling. Zero values select defaults.
type SampleOptions struct {
	Horizon float64
	Points  int
}

// Trajectory is a sampled time response on [0, Horizon]. It holds no
// samples; every iteration re-evaluates the closed form.
type Trajectory struct {
	params  Params
	loop    Loop
	input   Input
	horizon float64
	points  int
}

// SampleTimeResponse returns the closed-form step or ramp response of p.
// The loop type labels the trajectory; p already describes the loop.
func SampleTimeResponse(p Params, loop Loop, input Input, opts SampleOptions) (Trajectory, error) {
	points := opts.Points
	if points == 0 {
		points = DefaultPoints
	}
	if points < 2 {
		return Trajectory{}, &ParamError{Field: "points", Value: float64(points), Err: ErrInvalidSampling}
	}

	h := opts.Horizon
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return Trajectory{}, &ParamError{Field: "horizon", Value: h, Err: ErrInvalidSampling}
	}
	if h == 0 {
		h = DefaultHorizon(p)
	}
	if p.Wn <= 0 || math.IsNaN(p.Wn) {
		return Trajectory{}, &ParamError{Field: "ωn", Value: p.Wn, Err: ErrZeroNaturalFrequency}
	}

	return Trajectory{params: p, loop: loop, input: input, horizon: h, points: points}, nil
}

// DefaultHorizon is 1.5·Ts(2%) for convergent systems.
func DefaultHorizon(p Params) float64 {
	if p.Zeta <= 0 || p.Wn <= 0 {
		return DefaultFallbackHorizon
	}
	return 1.5 * 4 / (p.Zeta * p.Wn)
}

func (tr Trajectory) Params() Params   { return tr.params }
func (tr Trajectory) Loop() Loop       { return tr.loop }
func (tr Trajectory) Input() Input     { return tr.input }
func (tr Trajectory) Horizon() float64 { return tr.horizon }
func (tr Trajectory) Len() int         { return tr.points }

func (tr Trajectory) time(k int) float64 {
	if k == tr.points-1 {
		return tr.horizon
	}
	return tr.horizon * float64(k) / float64(tr.points-1)
}

// All yields (t, y) pairs in time order. It can be ranged over repeatedly.
func (tr Trajectory) All() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for k := 0; k < tr.points; k++ {
			t := tr.time(k)
			if !yield(t, Evaluate(tr.params, tr.input, t)) {
				return
			}
		}
	}
}

func (tr Trajectory) Times() []float64 {
	out := make([]float64, tr.points)
	for k := range out {
		out[k] = tr.time(k)
	}
	return out
}

func (tr Trajectory) Values() []float64 {
	out := make([]float64, 0, tr.points)
	for _, y := range tr.All() {
		out = append(out, y)
	}
	return out
}

func (tr Trajectory) String() string {
	return fmt.Sprintf("%s %s response, %d points on [0, %.4g] s", tr.loop, tr.input, tr.points, tr.horizon)
}

// Evaluate returns the response of p to input at time t >= 0.
func Evaluate(p Params, input Input, t float64) float64 {
	if input == Ramp {
		return p.Gain * unitRamp(p.Wn, p.Zeta, t)
	}
	return p.Gain * unitStep(p.Wn, p.Zeta, t)
}

func unitStep(wn, z, t float64) float64 {
	sigma := z * wn
	az := math.Abs(z)
	switch {
	case z == 0:
		return 1 - math.Cos(wn*t)
	case az < 1:
		r := math.Sqrt(1 - z*z)
		wd := wn * r
		return 1 - math.Exp(-sigma*t)/r*math.Sin(wd*t+math.Acos(z))
	case az == 1:
		return 1 - math.Exp(-sigma*t)*(1+sigma*t)
	default:
		s1, s2 := realPoles(wn, z)
		a := s1 / (s1 - s2)
		b := -s2 / (s1 - s2)
		return 1 - a*math.Exp(s2*t) - b*math.Exp(s1*t)
	}
}

// unitRamp is the time integral of unitStep.
func unitRamp(wn, z, t float64) float64 {
	sigma := z * wn
	az := math.Abs(z)
	switch {
	case az < 1:
		wd := wn * math.Sqrt(1-z*z)
		w2 := wn * wn
		osc := 2*sigma*math.Cos(wd*t) - (wd*wd-sigma*sigma)/wd*math.Sin(wd*t)
		return t - 2*sigma/w2 + math.Exp(-sigma*t)*osc/w2
	case az == 1:
		return t - 2/sigma + math.Exp(-sigma*t)*(t+2/sigma)
	default:
		s1, s2 := realPoles(wn, z)
		a := s1 / (s1 - s2)
		b := -s2 / (s1 - s2)
		return t - a*(math.Exp(s2*t)-1)/s2 - b*(math.Exp(s1*t)-1)/s1
	}
}

func realPoles(wn, z float64) (s1, s2 float64) {
	d := wn * math.Sqrt(z*z-1)
	return -z*wn + d, -z*wn - d
}
