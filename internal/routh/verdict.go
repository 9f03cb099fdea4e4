package routh

type Verdict int

const (
	Stable Verdict = iota
	Unstable
	// Marginal means no sign change was found but an epsilon substitution
	// was needed, which can mask roots on the imaginary axis.
	Marginal
)

func (v Verdict) String() string {
	switch v {
	case Stable:
		return "stable"
	case Unstable:
		return "unstable"
	case Marginal:
		return "marginal"
	default:
		return "unknown"
	}
}

// Stable reports whether the table proves every root lies in the open
// left half-plane.
func (a *Analysis) Stable() bool {
	return a.Verdict() == Stable
}

func (a *Analysis) Verdict() Verdict {
	if a.RHPPoles > 0 {
		return Unstable
	}
	if len(a.Degenerate) > 0 {
		return Marginal
	}
	col := a.Table.FirstColumn()
	for i, v := range col {
		if isZero(v) {
			return Marginal
		}
		if i > 0 && (v > 0) != (col[0] > 0) {
			return Unstable
		}
	}
	return Stable
}

// HasZeroRow reports whether the auxiliary polynomial rule was applied.
func (a *Analysis) HasZeroRow() bool {
	for _, d := range a.Degenerate {
		if d.Kind == ZeroRow {
			return true
		}
	}
	return false
}
