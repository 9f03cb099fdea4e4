package poly

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Roots returns the roots of p as eigenvalues of its companion matrix,
// sorted by descending real part then descending imaginary part.
// Trailing zero coefficients contribute roots at the origin.
func (p Poly) Roots() ([]complex128, error) {
	if err := ValidateNumerator(p); err != nil {
		return nil, err
	}
	q := p.Trim()

	zeros := 0
	for len(q) > 1 && math.Abs(q[len(q)-1]) < ZeroTolerance {
		q = q[:len(q)-1]
		zeros++
	}

	roots := make([]complex128, 0, len(q)-1+zeros)
	for i := 0; i < zeros; i++ {
		roots = append(roots, 0)
	}

	n := len(q) - 1
	switch {
	case n <= 0:
	case n == 1:
		roots = append(roots, complex(-q[1]/q[0], 0))
	default:
		c := companion(q)
		var eig mat.Eigen
		if ok := eig.Factorize(c, mat.EigenNone); !ok {
			return nil, fmt.Errorf("%w: eigen decomposition of degree %d companion matrix", ErrComputationFailure, n)
		}
		roots = append(roots, eig.Values(nil)...)
	}

	for i, r := range roots {
		if math.IsNaN(real(r)) || math.IsNaN(imag(r)) {
			return nil, fmt.Errorf("%w: root %d is NaN", ErrComputationFailure, i)
		}
	}

	SortRoots(roots)
	return roots, nil
}

// companion builds the upper companion matrix of a trimmed polynomial.
func companion(q Poly) *mat.Dense {
	n := len(q) - 1
	c := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		c.Set(0, j, -q[j+1]/q[0])
	}
	for i := 1; i < n; i++ {
		c.Set(i, i-1, 1)
	}
	return c
}

// SortRoots orders roots by descending real part, then descending imaginary part.
func SortRoots(roots []complex128) {
	sort.SliceStable(roots, func(i, j int) bool {
		ri, rj := real(roots[i]), real(roots[j])
		if math.Abs(ri-rj) > 1e-9 {
			return ri > rj
		}
		return imag(roots[i]) > imag(roots[j])
	})
}

// CountRightHalfPlane counts roots with real part above tol.
func CountRightHalfPlane(roots []complex128, tol float64) int {
	n := 0
	for _, r := range roots {
		if real(r) > tol {
			n++
		}
	}
	return n
}
