package lti

import (
	"fmt"
	"math"
	"strings"
)

const (
	ruleWidth = 65
	axisTol   = 1e-9
)

type Stability int

const (
	Stable Stability = iota
	MarginallyStable
	Unstable
)

func (s Stability) String() string {
	switch s {
	case Stable:
		return "stable"
	case MarginallyStable:
		return "marginally stable"
	default:
		return "unstable"
	}
}

// ClassifyPoles is Stable when every pole is in the open left half-plane,
// Unstable when any is in the right half-plane, and MarginallyStable when
// the rest lie on the imaginary axis.
func ClassifyPoles(poles []complex128) Stability {
	out := Stable
	for _, p := range poles {
		switch re := real(p); {
		case re > axisTol:
			return Unstable
		case re >= -axisTol:
			out = MarginallyStable
		}
	}
	return out
}

func formatRoot(label string, i int, z complex128) string {
	re, im := real(z), imag(z)
	if math.Abs(re) < 1e-10 {
		re = 0
	}
	if math.Abs(im) < 1e-10 {
		return fmt.Sprintf("%s %d: %+.4f", label, i, re)
	}
	if im >= 0 {
		return fmt.Sprintf("%s %d: %+.4f + %.4fj", label, i, re, im)
	}
	return fmt.Sprintf("%s %d: %+.4f - %.4fj", label, i, re, -im)
}

// PoleZeroReport lists poles with stability tags, zeros, the verdict and
// the counts.
func PoleZeroReport(title string, tf TransferFunction) string {
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	var sb strings.Builder
	sb.WriteString(heavy + "\n" + title + "\n" + heavy + "\n")
	sb.WriteString(tf.String() + "\n\n")

	sb.WriteString("POLES:\n" + light + "\n")
	poles, perr := tf.Poles()
	stable, marginal, unstable := 0, 0, 0
	switch {
	case perr != nil:
		sb.WriteString("  poles unavailable: " + perr.Error() + "\n")
	case len(poles) == 0:
		sb.WriteString("  no poles\n")
	default:
		for i, p := range poles {
			switch ClassifyPoles([]complex128{p}) {
			case Stable:
				sb.WriteString("  ✓ " + formatRoot("Pole", i+1, p) + " [STABLE]\n")
				stable++
			case MarginallyStable:
				sb.WriteString("  ~ " + formatRoot("Pole", i+1, p) + " [MARGINAL]\n")
				marginal++
			default:
				sb.WriteString("  ✗ " + formatRoot("Pole", i+1, p) + " [UNSTABLE]\n")
				unstable++
			}
		}
	}

	sb.WriteString("\nZEROS:\n" + light + "\n")
	zeros, zerr := tf.Zeros()
	switch {
	case zerr != nil:
		sb.WriteString("  zeros unavailable: " + zerr.Error() + "\n")
	case len(zeros) == 0:
		sb.WriteString("  no zeros\n")
	default:
		for i, z := range zeros {
			sb.WriteString("  • " + formatRoot("Zero", i+1, z) + "\n")
		}
	}

	if perr == nil && len(poles) > 0 {
		sb.WriteString("\nSTABILITY:\n" + heavy + "\n")
		switch ClassifyPoles(poles) {
		case Stable:
			sb.WriteString("STABLE - all poles in the left half-plane\n")
		case Unstable:
			sb.WriteString("UNSTABLE - poles in the right half-plane\n")
		default:
			sb.WriteString("MARGINALLY STABLE - poles on the imaginary axis\n")
		}
	}

	sb.WriteString("\nSUMMARY:\n" + light + "\n")
	fmt.Fprintf(&sb, "  Total poles: %d\n", len(poles))
	fmt.Fprintf(&sb, "  Total zeros: %d\n", len(zeros))
	fmt.Fprintf(&sb, "  Stable poles: %d\n", stable)
	fmt.Fprintf(&sb, "  Marginal poles: %d\n", marginal)
	fmt.Fprintf(&sb, "  Unstable poles: %d\n", unstable)
	if dc := tf.DCGain(); !math.IsNaN(dc) {
		fmt.Fprintf(&sb, "  DC gain: %.4f\n", dc)
	}
	sb.WriteString(heavy + "\n")
	return sb.String()
}
