package lti

import (
	"math"
	"math/cmplx"
)

// Mode is the natural frequency and damping of one pole.
type Mode struct {
	Pole complex128
	Wn   float64
	Zeta float64
}

// minModeWn filters poles at the origin out of dominance checks.
const minModeWn = 1e-5

// Damp returns a Mode per pole, in pole order.
func (tf TransferFunction) Damp() ([]Mode, error) {
	poles, err := tf.Poles()
	if err != nil {
		return nil, err
	}
	modes := make([]Mode, len(poles))
	for i, p := range poles {
		wn := cmplx.Abs(p)
		zeta := -1.0
		if wn > 0 {
			zeta = -real(p) / wn
		}
		modes[i] = Mode{Pole: p, Wn: wn, Zeta: zeta}
	}
	return modes, nil
}

// Dominant is the mode with the smallest ωn above minModeWn.
func (tf TransferFunction) Dominant() (Mode, bool, error) {
	modes, err := tf.Damp()
	if err != nil {
		return Mode{}, false, err
	}
	best, found := Mode{Wn: math.Inf(1)}, false
	for _, m := range modes {
		if m.Wn > minModeWn && m.Wn < best.Wn {
			best, found = m, true
		}
	}
	if !found {
		return Mode{}, false, nil
	}
	return best, true, nil
}
