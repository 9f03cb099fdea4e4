package secondorder

import (
	"fmt"
	"strings"

	"github.com/san-kum/ltilab/internal/poly"
)

const ruleWidth = 60

const na = "not applicable"

// FormatReport renders the full characterization of p as text.
func FormatReport(p Params, loop Loop, input Input) string {
	c := Characterize(p, loop, input)
	heavy := strings.Repeat("═", ruleWidth)

	var sb strings.Builder
	sb.WriteString(heavy + "\n")
	sb.WriteString("           SECOND-ORDER SYSTEM ANALYSIS\n")
	sb.WriteString(heavy + "\n\n")

	section(&sb, "SYSTEM PARAMETERS")
	fmt.Fprintf(&sb, "  Loop: %s, input: %s\n", loop, input)
	fmt.Fprintf(&sb, "  Natural frequency (ωn): %.4f rad/s\n", p.Wn)
	fmt.Fprintf(&sb, "  Damping ratio (ζ):      %.4f\n", p.Zeta)
	fmt.Fprintf(&sb, "  Gain (K):               %.4f\n", p.Gain)
	sb.WriteString("  Standard form: " + poly.FormatTransferFunction(Numerator(p), Denominator(p)) + "\n")

	section(&sb, "CLASSIFICATION")
	fmt.Fprintf(&sb, "  %s (ζ = %.4f)\n", strings.ToUpper(c.Regime.String()), p.Zeta)

	section(&sb, "POLES")
	writePoles(&sb, c)

	section(&sb, "TIME CHARACTERISTICS")
	writeTimes(&sb, c)

	section(&sb, strings.ToUpper(input.String())+" RESPONSE")
	writeResponse(&sb, c)

	section(&sb, "STABILITY")
	writeStability(&sb, c)

	section(&sb, "RECOMMENDATIONS")
	for _, r := range Recommendations(p) {
		sb.WriteString("  • " + r + "\n")
	}

	section(&sb, "SUMMARY")
	fmt.Fprintf(&sb, "  %s, ωn = %.4f rad/s, ζ = %.4f, K = %.4f\n", c.Regime, p.Wn, p.Zeta, p.Gain)
	return sb.String()
}

func section(sb *strings.Builder, title string) {
	light := strings.Repeat("─", ruleWidth)
	sb.WriteString("\n" + light + "\n" + title + ":\n" + light + "\n")
}

func writePoles(sb *strings.Builder, c Characteristics) {
	s1, s2 := c.Poles[0], c.Poles[1]
	switch {
	case imag(s1) != 0:
		sb.WriteString("  Complex conjugate pair:\n")
		fmt.Fprintf(sb, "  s1 = %.4f + j%.4f\n", real(s1), imag(s1))
		fmt.Fprintf(sb, "  s2 = %.4f - j%.4f\n", real(s2), -imag(s2))
		fmt.Fprintf(sb, "  Damped frequency (ωd): %.4f rad/s\n", c.Wd.Value)
	case s1 == s2:
		sb.WriteString("  Repeated real pole:\n")
		fmt.Fprintf(sb, "  s1 = s2 = %.4f\n", real(s1))
	default:
		sb.WriteString("  Distinct real poles:\n")
		fmt.Fprintf(sb, "  s1 = %.4f\n", real(s1))
		fmt.Fprintf(sb, "  s2 = %.4f\n", real(s2))
	}
}

func writeTimes(sb *strings.Builder, c Characteristics) {
	if c.Regime == Unstable {
		sb.WriteString("  Unstable system, time characteristics do not apply\n")
		return
	}
	if c.Regime == Undamped {
		fmt.Fprintf(sb, "  Sustained oscillation, period %.4f s (%.4f Hz)\n", c.Period.Value, 1/c.Period.Value)
	}
	fmt.Fprintf(sb, "  Rise time (Tr):          %s\n", c.RiseTime.Format("%.4f s", na))
	fmt.Fprintf(sb, "  Peak time (Tp):          %s\n", c.PeakTime.Format("%.4f s", na))
	fmt.Fprintf(sb, "  Settling time 2%% (Ts):   %s\n", c.SettlingTime2.Format("%.4f s", na))
	fmt.Fprintf(sb, "  Settling time 5%% (Ts):   %s\n", c.SettlingTime5.Format("%.4f s", na))
	if c.TimeConstant.Defined {
		fmt.Fprintf(sb, "  Time constant (τ):       %.4f s\n", c.TimeConstant.Value)
	}
}

func writeResponse(sb *strings.Builder, c Characteristics) {
	if c.Regime == Unstable {
		sb.WriteString("  Unstable system, the response diverges\n")
		return
	}
	fmt.Fprintf(sb, "  Final value:             %s\n", c.FinalValue.Format("%.4f", "none (sustained oscillation)"))
	fmt.Fprintf(sb, "  Overshoot (Mp):          %s\n", c.Overshoot.Format("%.2f%%", na))
	if c.Regime == Underdamped && c.Input == Step {
		fmt.Fprintf(sb, "  Peak value:              %.4f\n", c.Params.Gain*(1+c.Overshoot.Value/100))
	}
	sse := na
	if c.Loop == ClosedLoop {
		sse = "undefined (response does not settle)"
	}
	fmt.Fprintf(sb, "  Steady-state error:      %s\n", c.SteadyStateError.Format("%.4f", sse))
}

func writeStability(sb *strings.Builder, c Characteristics) {
	switch c.Regime {
	case Unstable:
		sb.WriteString("  UNSTABLE - negative damping ratio, the response diverges\n")
	case Undamped:
		sb.WriteString("  MARGINALLY STABLE - zero damping, permanent oscillation\n")
	default:
		fmt.Fprintf(sb, "  STABLE - ζ = %.4f > 0, the response converges\n", c.Params.Zeta)
		fmt.Fprintf(sb, "  Decay rate: %.4f (|real part of the poles|)\n", c.DecayRate.Value)
	}
}

// Recommendations gives design guidance from the ζ and ωn bands.
func Recommendations(p Params) []string {
	var out []string
	z := p.Zeta
	c := Characterize(p, ClosedLoop, Step)
	switch {
	case z < 0:
		out = append(out,
			"Unstable: review the design and the feedback signs",
			"Consider adding compensation")
	case z == 0:
		out = append(out,
			"Oscillatory: add damping to the system",
			"Consider a PD or PID controller")
	case z < 0.4:
		out = append(out,
			fmt.Sprintf("High overshoot (%.2f%%): increase ζ to reduce oscillation", c.Overshoot.Value),
			"Fast response, avoid for overshoot-sensitive applications")
	case z < 0.7:
		out = append(out,
			fmt.Sprintf("Moderate overshoot (%.2f%%) with good response speed", c.Overshoot.Value),
			"Suitable for general-purpose control")
	case z < 1:
		out = append(out,
			fmt.Sprintf("Well damped, low overshoot (%.2f%%)", c.Overshoot.Value),
			"Smooth response for applications that do not tolerate oscillation")
	case z == 1:
		out = append(out, "Critically damped: fastest response without overshoot")
	default:
		out = append(out,
			"Overdamped: monotonic but slower than critical damping",
			"Reduce ζ to speed up the response")
	}

	switch {
	case p.Wn < 1:
		out = append(out, fmt.Sprintf("ωn = %.4f rad/s is low, the response will be slow", p.Wn))
	case p.Wn <= 10:
		out = append(out, fmt.Sprintf("ωn = %.4f rad/s is in a suitable range", p.Wn))
	default:
		out = append(out, fmt.Sprintf("ωn = %.4f rad/s is high, watch for noise and actuator limits", p.Wn))
	}
	return out
}
