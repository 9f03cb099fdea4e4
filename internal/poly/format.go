package poly

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format renders p as "2.0000s^2 + s - 3.0000". Near-zero terms are
// skipped; unit coefficients on s terms are elided.
func Format(p Poly) string {
	terms := make([]string, 0, len(p))
	for i, c := range p {
		if math.Abs(c) <= ZeroTolerance {
			continue
		}
		exp := len(p) - 1 - i
		terms = append(terms, term(c, exp))
	}
	if len(terms) == 0 {
		return "0"
	}

	var sb strings.Builder
	for i, t := range terms {
		switch {
		case i == 0:
			sb.WriteString(t)
		case strings.HasPrefix(t, "-"):
			sb.WriteString(" - ")
			sb.WriteString(t[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(t)
		}
	}
	return sb.String()
}

func term(c float64, exp int) string {
	if exp == 0 {
		return fmt.Sprintf("%.4f", c)
	}
	power := "s"
	if exp > 1 {
		power = "s^" + strconv.Itoa(exp)
	}
	switch {
	case c == 1:
		return power
	case c == -1:
		return "-" + power
	default:
		return fmt.Sprintf("%.4f%s", c, power)
	}
}

// FormatTransferFunction renders "G(s) = (num) / (den)".
func FormatTransferFunction(num, den Poly) string {
	return fmt.Sprintf("G(s) = (%s) / (%s)", Format(num), Format(den))
}

// FormatCharacteristic renders "Δ(s) = ... = 0".
func FormatCharacteristic(den Poly) string {
	return fmt.Sprintf("Δ(s) = %s = 0", Format(den))
}

// FormatComplex renders a root with 6-digit precision, dropping
// imaginary parts below ZeroTolerance.
func FormatComplex(z complex128) string {
	re, im := real(z), imag(z)
	if math.Abs(im) < ZeroTolerance {
		return fmt.Sprintf("%10.6f", re)
	}
	if im < 0 {
		return fmt.Sprintf("%10.6f - %10.6fj", re, -im)
	}
	return fmt.Sprintf("%10.6f + %10.6fj", re, im)
}
