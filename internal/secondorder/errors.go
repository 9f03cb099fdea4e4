package secondorder

import (
	"errors"
	"fmt"

	"github.com/san-kum/ltilab/internal/poly"
)

var (
	ErrInvalidPolynomial      = poly.ErrInvalidPolynomial
	ErrZeroLeadingCoefficient = poly.ErrZeroLeadingCoefficient

	// ErrNotSecondOrder indicates a denominator without exactly 3 coefficients.
	ErrNotSecondOrder = errors.New("secondorder: system is not second order")

	// ErrNonPhysicalSystem indicates ωn² = a2/a0 <= 0.
	ErrNonPhysicalSystem = errors.New("secondorder: non-physical system (ωn² must be positive)")

	// ErrZeroNaturalFrequency indicates ωn computed to zero.
	ErrZeroNaturalFrequency = errors.New("secondorder: natural frequency is zero")

	// ErrInvalidSampling indicates a bad sample count or horizon.
	ErrInvalidSampling = errors.New("secondorder: invalid sampling options")
)

// ParamError records the offending input behind a validation failure.
type ParamError struct {
	Field string
	Value float64
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%v (%s = %g)", e.Err, e.Field, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}
