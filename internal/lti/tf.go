package lti

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/ltilab/internal/poly"
	"github.com/san-kum/ltilab/internal/secondorder"
)

var (
	// ErrImproper indicates a numerator of higher degree than the denominator.
	ErrImproper = errors.New("lti: transfer function is improper")

	// ErrDegenerateLoop indicates a feedback loop whose characteristic
	// polynomial vanishes.
	ErrDegenerateLoop = errors.New("lti: closed-loop denominator is zero")
)

// TransferFunction is N(s)/D(s). D always has a non-zero leading coefficient.
type TransferFunction struct {
	Num poly.Poly
	Den poly.Poly
}

func New(num, den []float64) (TransferFunction, error) {
	n := poly.Poly(num)
	if err := poly.ValidateNumerator(n); err != nil {
		return TransferFunction{}, fmt.Errorf("numerator: %w", err)
	}
	d := poly.Poly(den)
	if err := poly.Validate(d); err != nil {
		return TransferFunction{}, fmt.Errorf("denominator: %w", err)
	}
	return TransferFunction{Num: n.Trim(), Den: d.Clone()}, nil
}

// MustNew is New for literals known to be valid.
func MustNew(num, den []float64) TransferFunction {
	tf, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return tf
}

// Gain is the static transfer function k/1.
func Gain(k float64) TransferFunction {
	return TransferFunction{Num: poly.Poly{k}, Den: poly.Poly{1}}
}

func (tf TransferFunction) Order() int {
	return tf.Den.Degree()
}

func (tf TransferFunction) RelativeDegree() int {
	return tf.Den.Degree() - tf.Num.Trim().Degree()
}

func (tf TransferFunction) IsProper() bool {
	return tf.RelativeDegree() >= 0
}

// Series is the cascade a·b.
func Series(a, b TransferFunction) TransferFunction {
	return TransferFunction{Num: a.Num.Mul(b.Num).Trim(), Den: a.Den.Mul(b.Den)}
}

// Feedback closes a unity negative feedback loop around g: N/(D+N).
func Feedback(g TransferFunction) (TransferFunction, error) {
	den := g.Den.Add(g.Num)
	if den.IsZero() {
		return TransferFunction{}, ErrDegenerateLoop
	}
	return TransferFunction{Num: g.Num.Clone(), Den: den.Trim()}, nil
}

func (tf TransferFunction) Poles() ([]complex128, error) {
	return tf.Den.Roots()
}

// Zeros are the numerator roots; a constant numerator has none.
func (tf TransferFunction) Zeros() ([]complex128, error) {
	if tf.Num.IsZero() {
		return nil, nil
	}
	return tf.Num.Roots()
}

// DCGain is G(0). A pole at the origin gives ±Inf, 0/0 gives NaN.
func (tf TransferFunction) DCGain() float64 {
	n, d := tf.Num.Constant(), tf.Den.Constant()
	if math.Abs(d) < poly.ZeroTolerance {
		if math.Abs(n) < poly.ZeroTolerance {
			return math.NaN()
		}
		return math.Copysign(math.Inf(1), n)
	}
	return n / d
}

// Eval is G(s).
func (tf TransferFunction) Eval(s complex128) complex128 {
	return tf.Num.Eval(s) / tf.Den.Eval(s)
}

// SecondOrder extracts (ωn, ζ, K) when the denominator has degree 2.
func (tf TransferFunction) SecondOrder(loop secondorder.Loop) (secondorder.Params, error) {
	return secondorder.Extract(tf.Num, tf.Den, loop)
}

func (tf TransferFunction) String() string {
	return poly.FormatTransferFunction(tf.Num, tf.Den)
}
