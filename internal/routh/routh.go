package routh

import (
	"fmt"
	"math"

	"github.com/san-kum/ltilab/internal/poly"
)

// DefaultEpsilon replaces zero pivots. It is an engineering heuristic kept
// for compatibility with textbook tooling, not a derived value.
const DefaultEpsilon = 0.01

// zeroTol is the magnitude below which a table entry counts as zero.
const zeroTol = 1e-10

var (
	ErrInvalidPolynomial      = poly.ErrInvalidPolynomial
	ErrZeroLeadingCoefficient = poly.ErrZeroLeadingCoefficient
	ErrComputationFailure     = poly.ErrComputationFailure
)

// Table is a Routh array; row i corresponds to s^(len(t)-1-i).
type Table [][]float64

func (t Table) FirstColumn() []float64 {
	col := make([]float64, len(t))
	for i, row := range t {
		col[i] = row[0]
	}
	return col
}

type DegeneracyKind int

const (
	// ZeroPivot marks a first-column zero replaced by epsilon.
	ZeroPivot DegeneracyKind = iota
	// ZeroRow marks an all-zero row replaced by the auxiliary polynomial derivative.
	ZeroRow
)

func (k DegeneracyKind) String() string {
	switch k {
	case ZeroPivot:
		return "zero pivot"
	case ZeroRow:
		return "zero row"
	default:
		return "unknown"
	}
}

type Degeneracy struct {
	Row  int
	Kind DegeneracyKind
}

type Options struct {
	Epsilon float64
}

func DefaultOptions() Options {
	return Options{Epsilon: DefaultEpsilon}
}

type Analysis struct {
	Table    Table
	RHPPoles int
	Roots    []complex128
	// RootsErr is set when root finding failed; the table is still valid.
	RootsErr   error
	Degenerate []Degeneracy
	Epsilon    float64
}

// Compute builds the Routh table for coeffs with the default epsilon.
func Compute(coeffs []float64) (*Analysis, error) {
	return ComputeWithOptions(coeffs, DefaultOptions())
}

func ComputeWithOptions(coeffs []float64, opts Options) (*Analysis, error) {
	p := poly.Poly(coeffs)
	if err := poly.Validate(p); err != nil {
		return nil, err
	}
	eps := opts.Epsilon
	if eps <= 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		return nil, fmt.Errorf("routh: epsilon must be a positive finite number, got %v", opts.Epsilon)
	}

	table, degenerate := build(p, eps)

	a := &Analysis{
		Table:      table,
		RHPPoles:   signChanges(table),
		Degenerate: degenerate,
		Epsilon:    eps,
	}

	roots, err := p.Roots()
	if err != nil {
		a.RootsErr = fmt.Errorf("routh: roots unavailable: %w", err)
	} else {
		a.Roots = roots
	}
	return a, nil
}

func build(p poly.Poly, eps float64) (Table, []Degeneracy) {
	m := len(p)
	n := (m + 1) / 2

	table := make(Table, m)
	for i := range table {
		table[i] = make([]float64, n)
	}
	for k, c := range p {
		table[k%2][k/2] = c
	}

	var degenerate []Degeneracy
	if m == 1 {
		return table, nil
	}

	if isZero(table[1][0]) {
		table[1][0] = eps
		degenerate = append(degenerate, Degeneracy{Row: 1, Kind: ZeroPivot})
	}

	for i := 2; i < m; i++ {
		x := table[i-1][0]
		if isZero(x) {
			x = eps
		}
		for j := 0; j < n-1; j++ {
			table[i][j] = (table[i-1][0]*table[i-2][j+1] - table[i-2][0]*table[i-1][j+1]) / x
		}

		if rowIsZero(table[i]) {
			auxiliaryDerivative(table, i)
			degenerate = append(degenerate, Degeneracy{Row: i, Kind: ZeroRow})
		}

		if isZero(table[i][0]) {
			table[i][0] = eps
			degenerate = append(degenerate, Degeneracy{Row: i, Kind: ZeroPivot})
		}
	}

	return table, degenerate
}

// auxiliaryDerivative fills row i with the derivative of the auxiliary
// polynomial built from row i-1, whose leading power is len(table)-i.
func auxiliaryDerivative(table Table, i int) {
	order := len(table) - i
	n := len(table[i])
	c, d := 0, 0
	for j := 0; j < n-1; j++ {
		if d >= len(table[i-1]) {
			break
		}
		table[i][j] = float64(order-c) * table[i-1][d]
		d++
		c += 2
	}
}

func signChanges(t Table) int {
	changes := 0
	for i := 0; i < len(t)-1; i++ {
		if t[i][0]*t[i+1][0] < 0 {
			changes++
		}
	}
	return changes
}

func isZero(v float64) bool {
	return math.Abs(v) < zeroTol
}

func rowIsZero(row []float64) bool {
	for _, v := range row {
		if !isZero(v) {
			return false
		}
	}
	return true
}
