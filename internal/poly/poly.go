package poly

import (
	"fmt"
	"math"
)

const (
	// LeadingTolerance is the smallest |a0| accepted for a leading coefficient.
	LeadingTolerance = 1e-15
	// ZeroTolerance is the magnitude below which a coefficient counts as zero.
	ZeroTolerance = 1e-10
)

// Poly is a coefficient vector, highest power first.
type Poly []float64

func (p Poly) Clone() Poly {
	c := make(Poly, len(p))
	copy(c, p)
	return c
}

func (p Poly) IsValid() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Degree is len(p)-1; the empty polynomial has degree -1.
func (p Poly) Degree() int {
	return len(p) - 1
}

func (p Poly) IsZero() bool {
	for _, v := range p {
		if math.Abs(v) >= ZeroTolerance {
			return false
		}
	}
	return true
}

// Trim drops leading near-zero coefficients. A zero polynomial trims to {0}.
func (p Poly) Trim() Poly {
	for i, v := range p {
		if math.Abs(v) >= ZeroTolerance {
			return p[i:].Clone()
		}
	}
	return Poly{0}
}

func (p Poly) Scale(factor float64) Poly {
	result := make(Poly, len(p))
	for i := range p {
		result[i] = p[i] * factor
	}
	return result
}

// Add aligns both operands at the constant term.
func (p Poly) Add(other Poly) Poly {
	n := max(len(p), len(other))
	result := make(Poly, n)
	for i := range p {
		result[n-len(p)+i] += p[i]
	}
	for i := range other {
		result[n-len(other)+i] += other[i]
	}
	return result
}

// Mul is polynomial multiplication (coefficient convolution).
func (p Poly) Mul(other Poly) Poly {
	if len(p) == 0 || len(other) == 0 {
		return Poly{}
	}
	result := make(Poly, len(p)+len(other)-1)
	for i, a := range p {
		for j, b := range other {
			result[i+j] += a * b
		}
	}
	return result
}

func (p Poly) Derivative() Poly {
	if len(p) <= 1 {
		return Poly{0}
	}
	n := p.Degree()
	result := make(Poly, n)
	for i := 0; i < n; i++ {
		result[i] = p[i] * float64(n-i)
	}
	return result
}

// Eval evaluates p at s with Horner's rule.
func (p Poly) Eval(s complex128) complex128 {
	var acc complex128
	for _, c := range p {
		acc = acc*s + complex(c, 0)
	}
	return acc
}

// Constant returns the s^0 coefficient.
func (p Poly) Constant() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1]
}

// Validate checks that p can serve as a characteristic polynomial.
func Validate(p Poly) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: no coefficients", ErrInvalidPolynomial)
	}
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: coefficient %d is %v", ErrInvalidPolynomial, i, v)
		}
	}
	if p.IsZero() {
		return fmt.Errorf("%w: all coefficients are zero", ErrInvalidPolynomial)
	}
	if math.Abs(p[0]) < LeadingTolerance {
		return ErrZeroLeadingCoefficient
	}
	return nil
}

// ValidateNumerator accepts a zero leading term, which Validate rejects.
func ValidateNumerator(p Poly) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: no coefficients", ErrInvalidPolynomial)
	}
	if !p.IsValid() {
		return fmt.Errorf("%w: non-finite coefficient in %v", ErrInvalidPolynomial, []float64(p))
	}
	return nil
}
