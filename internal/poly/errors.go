package poly

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPolynomial indicates an empty, all-zero or non-finite coefficient vector.
	ErrInvalidPolynomial = errors.New("poly: invalid polynomial")

	// ErrZeroLeadingCoefficient indicates a leading coefficient below LeadingTolerance.
	// It wraps ErrInvalidPolynomial.
	ErrZeroLeadingCoefficient = fmt.Errorf("%w: leading coefficient is zero", ErrInvalidPolynomial)

	// ErrComputationFailure indicates a numeric routine (root finding) did not converge.
	ErrComputationFailure = errors.New("poly: computation failed")
)
