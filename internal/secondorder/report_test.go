package secondorder

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Report", func() {
	It("renders the underdamped closed-loop step analysis", func() {
		out := FormatReport(mustParams(10, 0.5, 1), ClosedLoop, Step)
		Expect(out).To(ContainSubstring("SECOND-ORDER SYSTEM ANALYSIS"))
		Expect(out).To(ContainSubstring("UNDERDAMPED (ζ = 0.5000)"))
		Expect(out).To(ContainSubstring("G(s) = (100.0000) / (s^2 + 10.0000s + 100.0000)"))
		Expect(out).To(ContainSubstring("s1 = -5.0000 + j8.6603"))
		Expect(out).To(ContainSubstring("0.3628 s"))
		Expect(out).To(ContainSubstring("16.30%"))
		Expect(out).To(ContainSubstring("STABLE - ζ = 0.5000 > 0"))
		Expect(out).To(ContainSubstring("Moderate overshoot"))
	})

	It("flags unstable systems", func() {
		out := FormatReport(mustParams(2, -0.3, 1), ClosedLoop, Step)
		Expect(out).To(ContainSubstring("UNSTABLE - negative damping ratio"))
		Expect(out).To(ContainSubstring("the response diverges"))
		Expect(out).NotTo(ContainSubstring("Rise time"))
	})

	It("flags undamped systems as marginal", func() {
		out := FormatReport(mustParams(2, 0, 1), ClosedLoop, Step)
		Expect(out).To(ContainSubstring("MARGINALLY STABLE"))
		Expect(out).To(ContainSubstring("Overshoot (Mp):          ∞"))
		Expect(out).To(ContainSubstring("period 3.1416 s"))
	})

	It("marks open-loop steady-state error as not applicable", func() {
		out := FormatReport(mustParams(2, 1, 1), OpenLoop, Ramp)
		Expect(out).To(ContainSubstring("Steady-state error:      not applicable"))
		Expect(out).To(ContainSubstring("Repeated real pole"))
		Expect(out).To(ContainSubstring("RAMP RESPONSE"))
	})
})

var _ = Describe("Recommendations", func() {
	DescribeTable("follows the ζ and ωn bands",
		func(wn, zeta float64, first, last string) {
			recs := Recommendations(mustParams(wn, zeta, 1))
			Expect(recs[0]).To(ContainSubstring(first))
			Expect(recs[len(recs)-1]).To(ContainSubstring(last))
		},
		Entry("unstable, slow", 0.5, -0.1, "Unstable", "is low"),
		Entry("oscillatory", 2.0, 0.0, "Oscillatory", "suitable range"),
		Entry("high overshoot", 2.0, 0.2, "High overshoot", "suitable range"),
		Entry("moderate", 10.0, 0.5, "Moderate overshoot", "suitable range"),
		Entry("well damped, fast", 20.0, 0.8, "Well damped", "is high"),
		Entry("critical", 5.0, 1.0, "Critically damped", "suitable range"),
		Entry("overdamped", 5.0, 3.0, "Overdamped", "suitable range"),
	)
})
