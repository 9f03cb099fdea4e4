package routh

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/ltilab/internal/poly"
)

const (
	labelWidth = 7
	cellWidth  = 12
	ruleWidth  = 60
)

// FormatTable renders t as a bordered grid with s^k row labels.
func FormatTable(t Table) string {
	if len(t) == 0 {
		return ""
	}
	cols := len(t[0])
	var sb strings.Builder

	sb.WriteString(border("┌", "┬", "┐", cols))
	for i, row := range t {
		sb.WriteString("│")
		sb.WriteString(padRight(" s^"+strconv.Itoa(len(t)-1-i), labelWidth))
		sb.WriteString("│")
		for _, v := range row {
			sb.WriteString(" ")
			sb.WriteString(formatCell(v))
			sb.WriteString(" │")
		}
		sb.WriteString("\n")
		if i < len(t)-1 {
			sb.WriteString(border("├", "┼", "┤", cols))
		}
	}
	sb.WriteString(border("└", "┴", "┘", cols))
	return strings.TrimSuffix(sb.String(), "\n")
}

func border(left, mid, right string, cols int) string {
	var sb strings.Builder
	sb.WriteString(left)
	sb.WriteString(strings.Repeat("─", labelWidth))
	for j := 0; j < cols; j++ {
		sb.WriteString(mid)
		sb.WriteString(strings.Repeat("─", cellWidth))
	}
	sb.WriteString(right)
	sb.WriteString("\n")
	return sb.String()
}

func formatCell(v float64) string {
	switch a := math.Abs(v); {
	case a < zeroTol:
		return fmt.Sprintf("%10.4f", 0.0)
	case a < 1e-4:
		return fmt.Sprintf("%10.2e", v)
	default:
		return fmt.Sprintf("%10.4f", v)
	}
}

func padRight(s string, width int) string {
	if n := len(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// CharacteristicEquation renders coeffs as "Δ(s) = ... = 0".
func CharacteristicEquation(coeffs []float64) string {
	return poly.FormatCharacteristic(coeffs)
}

// VerdictText is the one-line human-readable stability conclusion.
func VerdictText(a *Analysis) string {
	switch a.Verdict() {
	case Unstable:
		if a.RHPPoles == 0 {
			return "UNSTABLE - first column changes sign"
		}
		return fmt.Sprintf("UNSTABLE - %d pole(s) in the right half-plane", a.RHPPoles)
	case Marginal:
		return "MARGINAL - degenerate row(s) substituted with epsilon, check the imaginary axis"
	default:
		return "STABLE - all poles in the left half-plane"
	}
}

// FormatReport renders the full analysis: equation, table, verdict and roots.
func FormatReport(coeffs []float64, a *Analysis) string {
	heavy := strings.Repeat("═", ruleWidth)
	light := strings.Repeat("─", ruleWidth)

	var sb strings.Builder
	sb.WriteString(heavy + "\n")
	sb.WriteString("         ROUTH-HURWITZ STABILITY ANALYSIS\n")
	sb.WriteString(heavy + "\n\n")

	sb.WriteString("CHARACTERISTIC POLYNOMIAL:\n")
	sb.WriteString("  " + CharacteristicEquation(coeffs) + "\n\n")

	sb.WriteString("ROUTH TABLE:\n")
	sb.WriteString(FormatTable(a.Table))
	sb.WriteString("\n\n" + light + "\n")
	sb.WriteString("RESULT:\n")
	sb.WriteString(light + "\n")
	fmt.Fprintf(&sb, "• Right half-plane poles: %d\n", a.RHPPoles)
	sb.WriteString("• " + VerdictText(a) + "\n")
	for _, d := range a.Degenerate {
		fmt.Fprintf(&sb, "• Row s^%d: %s replaced (epsilon = %g)\n", len(a.Table)-1-d.Row, d.Kind, a.Epsilon)
	}

	sb.WriteString("\n" + light + "\n")
	sb.WriteString("ROOTS OF THE CHARACTERISTIC POLYNOMIAL:\n")
	sb.WriteString(light + "\n")
	switch {
	case a.RootsErr != nil:
		sb.WriteString("• roots unavailable\n")
	case len(a.Roots) == 0:
		sb.WriteString("• none (constant polynomial)\n")
	default:
		for i, r := range a.Roots {
			fmt.Fprintf(&sb, "• Root %d: %s\n", i+1, poly.FormatComplex(r))
		}
	}
	return sb.String()
}
