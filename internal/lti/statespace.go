package lti

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/ltilab/internal/dynamo"
)

// StateSpace is the controllable canonical realization
//
//	x' = A x + B u,  y = C x + D u
//
// of a proper transfer function. It implements dynamo.System.
type StateSpace struct {
	a *mat.Dense
	b *mat.VecDense
	c *mat.VecDense
	d float64
	n int
}

var _ dynamo.System = (*StateSpace)(nil)

func Realize(tf TransferFunction) (*StateSpace, error) {
	if !tf.IsProper() {
		return nil, fmt.Errorf("%w: numerator degree %d exceeds denominator degree %d",
			ErrImproper, tf.Num.Trim().Degree(), tf.Den.Degree())
	}

	lead := tf.Den[0]
	n := tf.Den.Degree()
	a := tf.Den.Scale(1 / lead)

	num := tf.Num.Trim().Scale(1 / lead)
	bs := make([]float64, n+1)
	copy(bs[n+1-len(num):], num)

	ss := &StateSpace{d: bs[0], n: n}
	if n == 0 {
		return ss, nil
	}

	ss.a = mat.NewDense(n, n, nil)
	for i := 0; i < n-1; i++ {
		ss.a.Set(i, i+1, 1)
	}
	for k := 0; k < n; k++ {
		ss.a.Set(n-1, k, -a[n-k])
	}

	ss.b = mat.NewVecDense(n, nil)
	ss.b.SetVec(n-1, 1)

	ss.c = mat.NewVecDense(n, nil)
	for k := 0; k < n; k++ {
		ss.c.SetVec(k, bs[n-k]-a[n-k]*bs[0])
	}
	return ss, nil
}

func (ss *StateSpace) StateDim() int { return ss.n }

func (ss *StateSpace) ZeroState() dynamo.State {
	return make(dynamo.State, ss.n)
}

func (ss *StateSpace) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	if ss.n == 0 {
		return dynamo.State{}
	}
	dx := mat.NewVecDense(ss.n, nil)
	dx.MulVec(ss.a, mat.NewVecDense(ss.n, x))
	dx.AddScaledVec(dx, u.Scalar(), ss.b)
	return dynamo.State(dx.RawVector().Data)
}

func (ss *StateSpace) Output(x dynamo.State, u dynamo.Control) float64 {
	y := ss.d * u.Scalar()
	if ss.n == 0 {
		return y
	}
	return y + mat.Dot(ss.c, mat.NewVecDense(ss.n, x))
}

// A returns the state matrix, or nil for a static gain.
func (ss *StateSpace) A() mat.Matrix {
	if ss.a == nil {
		return nil
	}
	return ss.a
}

func (ss *StateSpace) Feedthrough() float64 { return ss.d }

// Eigenvalues of A, which equal the transfer function poles.
func (ss *StateSpace) Eigenvalues() ([]complex128, error) {
	if ss.n == 0 {
		return nil, nil
	}
	var eig mat.Eigen
	if !eig.Factorize(ss.a, mat.EigenNone) {
		return nil, fmt.Errorf("lti: eigen decomposition of %dx%d state matrix failed", ss.n, ss.n)
	}
	return eig.Values(nil), nil
}
