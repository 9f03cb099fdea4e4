package secondorder

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Extract", func() {
	It("reads ωn, ζ and K from a monic denominator", func() {
		p, err := Extract([]float64{4}, []float64{1, 0.8, 4}, ClosedLoop)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Wn).To(BeNumerically("~", 2, 1e-12))
		Expect(p.Zeta).To(BeNumerically("~", 0.2, 1e-12))
		Expect(p.Gain).To(BeNumerically("~", 1, 1e-12))
		Expect(p.Regime()).To(Equal(Underdamped))
	})

	It("normalizes by the leading coefficient", func() {
		p, err := Extract([]float64{2}, []float64{2, 4, 8}, OpenLoop)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Wn).To(BeNumerically("~", math.Sqrt(8.0/2.0), 1e-12))
		Expect(p.Zeta).To(BeNumerically("~", 4/(2*2*p.Wn), 1e-12))
		Expect(p.Gain).To(BeNumerically("~", 0.25, 1e-12))
	})

	It("uses the last numerator coefficient as the constant term", func() {
		p, err := Extract([]float64{3, 0, 9}, []float64{1, 2, 9}, ClosedLoop)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Gain).To(BeNumerically("~", 1, 1e-12))
	})

	DescribeTable("rejects invalid systems",
		func(num, den []float64, want error) {
			_, err := Extract(num, den, ClosedLoop)
			Expect(err).To(MatchError(want))
		},
		Entry("two denominator coefficients", []float64{1}, []float64{1, 2}, ErrNotSecondOrder),
		Entry("four denominator coefficients", []float64{1}, []float64{1, 2, 3, 4}, ErrNotSecondOrder),
		Entry("zero leading coefficient", []float64{1}, []float64{0, 1, 2}, ErrZeroLeadingCoefficient),
		Entry("negative ωn²", []float64{1}, []float64{1, 1, -4}, ErrNonPhysicalSystem),
		Entry("zero ωn²", []float64{1}, []float64{1, 1, 0}, ErrNonPhysicalSystem),
		Entry("sign mismatch", []float64{1}, []float64{-1, 1, 4}, ErrNonPhysicalSystem),
		Entry("empty numerator", []float64{}, []float64{1, 1, 4}, ErrInvalidPolynomial),
		Entry("NaN in denominator", []float64{1}, []float64{1, math.NaN(), 4}, ErrInvalidPolynomial),
		Entry("Inf in numerator", []float64{math.Inf(1)}, []float64{1, 1, 4}, ErrInvalidPolynomial),
	)

	It("reports the offending value", func() {
		_, err := Extract([]float64{1}, []float64{1, 2}, ClosedLoop)
		var pe *ParamError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Field).To(Equal("len(denominator)"))
		Expect(pe.Value).To(Equal(2.0))
		Expect(err.Error()).To(ContainSubstring("not second order"))
	})

	It("lets a zero leading coefficient match the invalid polynomial family", func() {
		_, err := Extract([]float64{1}, []float64{0, 1, 2}, ClosedLoop)
		Expect(errors.Is(err, ErrInvalidPolynomial)).To(BeTrue())
	})

	It("recovers (ωn, ζ, K) from the standard-form denominator", func() {
		for _, wn := range []float64{0.05, 0.5, 2, 10, 37.5} {
			for _, zeta := range []float64{-0.3, 0, 0.2, 0.7, 1, 2.5} {
				want, err := FromStandardForm(wn, zeta, 1.7)
				Expect(err).NotTo(HaveOccurred())

				got, err := Extract(Numerator(want), Denominator(want), ClosedLoop)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.Wn).To(BeNumerically("~", wn, 1e-9), "ωn=%g ζ=%g", wn, zeta)
				Expect(got.Zeta).To(BeNumerically("~", zeta, 1e-9), "ωn=%g ζ=%g", wn, zeta)
				Expect(got.Gain).To(BeNumerically("~", 1.7, 1e-9), "ωn=%g ζ=%g", wn, zeta)
			}
		}
	})
})

var _ = Describe("FromStandardForm", func() {
	DescribeTable("validates its inputs",
		func(wn, zeta, gain float64, want error) {
			_, err := FromStandardForm(wn, zeta, gain)
			Expect(err).To(MatchError(want))
		},
		Entry("zero ωn", 0.0, 0.5, 1.0, ErrZeroNaturalFrequency),
		Entry("negative ωn", -1.0, 0.5, 1.0, ErrNonPhysicalSystem),
		Entry("NaN ζ", 1.0, math.NaN(), 1.0, ErrInvalidPolynomial),
		Entry("Inf gain", 1.0, 0.5, math.Inf(-1), ErrInvalidPolynomial),
	)
})

var _ = Describe("Classify", func() {
	DescribeTable("maps ζ to its regime",
		func(zeta float64, want Regime) {
			Expect(Classify(zeta)).To(Equal(want))
		},
		Entry("negative infinity", math.Inf(-1), Unstable),
		Entry("negative", -0.5, Unstable),
		Entry("tiny negative", -1e-300, Unstable),
		Entry("NaN", math.NaN(), Unstable),
		Entry("zero", 0.0, Undamped),
		Entry("tiny positive", 1e-12, Underdamped),
		Entry("half", 0.5, Underdamped),
		Entry("just below one", math.Nextafter(1, 0), Underdamped),
		Entry("one", 1.0, CriticallyDamped),
		Entry("just above one", math.Nextafter(1, 2), Overdamped),
		Entry("large", 100.0, Overdamped),
		Entry("positive infinity", math.Inf(1), Overdamped),
	)

	It("partitions the real line with no gaps or overlaps", func() {
		for zeta := -3.0; zeta <= 3.0; zeta += 0.125 {
			matches := 0
			for _, in := range []bool{zeta < 0, zeta == 0, zeta > 0 && zeta < 1, zeta == 1, zeta > 1} {
				if in {
					matches++
				}
			}
			Expect(matches).To(Equal(1))

			var want Regime
			switch {
			case zeta < 0:
				want = Unstable
			case zeta == 0:
				want = Undamped
			case zeta < 1:
				want = Underdamped
			case zeta == 1:
				want = CriticallyDamped
			default:
				want = Overdamped
			}
			Expect(Classify(zeta)).To(Equal(want), "ζ=%g", zeta)
		}
	})

	It("names every regime", func() {
		Expect(CriticallyDamped.String()).To(Equal("critically damped"))
		Expect(Regime(99).String()).To(Equal("unknown"))
	})
})

var _ = Describe("ParseLoop and ParseInput", func() {
	It("accepts English and Portuguese names", func() {
		for in, want := range map[string]Loop{"closed": ClosedLoop, "OPEN": OpenLoop, "aberta": OpenLoop, "fechada": ClosedLoop} {
			got, err := ParseLoop(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		}
		for in, want := range map[string]Input{"step": Step, "Ramp": Ramp, "degrau": Step, "rampa": Ramp} {
			got, err := ParseInput(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		}
	})

	It("rejects unknown names", func() {
		_, err := ParseLoop("half")
		Expect(err).To(HaveOccurred())
		_, err = ParseInput("impulse")
		Expect(err).To(HaveOccurred())
	})
})
