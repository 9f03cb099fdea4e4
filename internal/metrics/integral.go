package metrics

import (
	"math"

	"github.com/san-kum/ltilab/internal/dynamo"
)

// Weighting selects the integrand applied to the tracking error e = r - y,
// where r is the input driving the system.
type Weighting int

const (
	// AbsoluteError is IAE, ∫|e| dt.
	AbsoluteError Weighting = iota
	// SquaredError is ISE, ∫e² dt.
	SquaredError
	// TimeWeightedError is ITAE, ∫t|e| dt.
	TimeWeightedError
)

// IntegralError accumulates a tracking-error integral with the trapezoid
// rule over the observed samples.
type IntegralError struct {
	name      string
	weighting Weighting
	sum       float64
	prevT     float64
	prevF     float64
	seen      bool
}

func NewIAE() *IntegralError  { return &IntegralError{name: "iae", weighting: AbsoluteError} }
func NewISE() *IntegralError  { return &IntegralError{name: "ise", weighting: SquaredError} }
func NewITAE() *IntegralError { return &IntegralError{name: "itae", weighting: TimeWeightedError} }

// ByName returns a fresh integral metric: iae, ise or itae.
func ByName(name string) (*IntegralError, bool) {
	switch name {
	case "iae":
		return NewIAE(), true
	case "ise":
		return NewISE(), true
	case "itae":
		return NewITAE(), true
	}
	return nil, false
}

func (m *IntegralError) Name() string {
	return m.name
}

func (m *IntegralError) integrand(s dynamo.Sample) float64 {
	e := s.U.Scalar() - s.Y
	switch m.weighting {
	case SquaredError:
		return e * e
	case TimeWeightedError:
		return s.T * math.Abs(e)
	default:
		return math.Abs(e)
	}
}

func (m *IntegralError) Observe(s dynamo.Sample) {
	f := m.integrand(s)
	if m.seen {
		m.sum += (s.T - m.prevT) * (f + m.prevF) / 2
	}
	m.prevT, m.prevF, m.seen = s.T, f, true
}

func (m *IntegralError) Value() float64 {
	return m.sum
}

func (m *IntegralError) Reset() {
	m.sum = 0
	m.prevT, m.prevF, m.seen = 0, 0, false
}
