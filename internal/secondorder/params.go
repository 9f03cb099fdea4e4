package secondorder

import (
	"fmt"
	"math"

	"github.com/san-kum/ltilab/internal/poly"
)

// Params are the standard-form parameters of a second-order system.
type Params struct {
	Wn   float64
	Zeta float64
	Gain float64
}

func (p Params) Regime() Regime {
	return Classify(p.Zeta)
}

// Sigma is the real part magnitude ζωn of the poles.
func (p Params) Sigma() float64 {
	return p.Zeta * p.Wn
}

func (p Params) String() string {
	return fmt.Sprintf("ωn=%.4f rad/s ζ=%.4f K=%.4f", p.Wn, p.Zeta, p.Gain)
}

// Extract derives (ωn, ζ, K) from num/den, where den = [a0, a1, a2].
// The loop type does not change the extraction; it is accepted so callers
// can thread a single set of options through every step.
func Extract(num, den []float64, loop Loop) (Params, error) {
	if len(den) != 3 {
		return Params{}, &ParamError{Field: "len(denominator)", Value: float64(len(den)), Err: ErrNotSecondOrder}
	}
	if err := poly.ValidateNumerator(poly.Poly(num)); err != nil {
		return Params{}, fmt.Errorf("numerator: %w", err)
	}
	for _, c := range den {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Params{}, fmt.Errorf("denominator: %w: non-finite coefficient %v", ErrInvalidPolynomial, c)
		}
	}

	a0, a1, a2 := den[0], den[1], den[2]
	if a0 == 0 {
		return Params{}, fmt.Errorf("denominator: %w", ErrZeroLeadingCoefficient)
	}
	a1n, a2n := a1/a0, a2/a0
	if a2n <= 0 {
		return Params{}, &ParamError{Field: "a2/a0", Value: a2n, Err: ErrNonPhysicalSystem}
	}

	wn := math.Sqrt(a2n)
	if wn == 0 {
		return Params{}, &ParamError{Field: "ωn", Value: wn, Err: ErrZeroNaturalFrequency}
	}

	// a2 == 0 cannot survive the check above; the fallback keeps the
	// gain finite if that check is ever relaxed.
	gain := 1.0
	if a2 != 0 {
		gain = num[len(num)-1] / a2
	}

	return Params{
		Wn:   wn,
		Zeta: a1n / (2 * wn),
		Gain: gain,
	}, nil
}

// FromStandardForm builds Params directly from ωn, ζ and K.
func FromStandardForm(wn, zeta, gain float64) (Params, error) {
	switch {
	case math.IsNaN(wn) || math.IsInf(wn, 0) || wn < 0:
		return Params{}, &ParamError{Field: "ωn", Value: wn, Err: ErrNonPhysicalSystem}
	case wn == 0:
		return Params{}, &ParamError{Field: "ωn", Value: wn, Err: ErrZeroNaturalFrequency}
	case math.IsNaN(zeta) || math.IsInf(zeta, 0):
		return Params{}, &ParamError{Field: "ζ", Value: zeta, Err: ErrInvalidPolynomial}
	case math.IsNaN(gain) || math.IsInf(gain, 0):
		return Params{}, &ParamError{Field: "K", Value: gain, Err: ErrInvalidPolynomial}
	}
	return Params{Wn: wn, Zeta: zeta, Gain: gain}, nil
}

// Denominator returns the monic characteristic polynomial [1, 2ζωn, ωn²].
func Denominator(p Params) []float64 {
	return []float64{1, 2 * p.Zeta * p.Wn, p.Wn * p.Wn}
}

// Numerator returns [K·ωn²], the numerator of the standard form.
func Numerator(p Params) []float64 {
	return []float64{p.Gain * p.Wn * p.Wn}
}
