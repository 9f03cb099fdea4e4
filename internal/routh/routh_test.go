package routh

import (
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ltilab/internal/poly"
)

func expectRows(t Table, want [][]float64) {
	Expect(t).To(HaveLen(len(want)))
	for i := range want {
		Expect(t[i]).To(HaveLen(len(want[i])), "row %d", i)
		for j := range want[i] {
			Expect(t[i][j]).To(BeNumerically("~", want[i][j], 1e-9), "entry [%d][%d]", i, j)
		}
	}
}

var _ = Describe("Compute", func() {
	Context("with the textbook polynomial 5s^5+4s^4+6s^3+9s^2+8s+7", func() {
		var a *Analysis

		BeforeEach(func() {
			var err error
			a, err = Compute([]float64{5, 4, 6, 9, 8, 7})
			Expect(err).NotTo(HaveOccurred())
		})

		It("reproduces the reference table", func() {
			expectRows(a.Table, [][]float64{
				{5, 6, 8},
				{4, 9, 7},
				{-5.25, -0.75, 0},
				{59.0 / 7.0, 7, 0},
				{213.0 / 59.0, 0, 0},
				{7, 0, 0},
			})
		})

		It("counts two right half-plane poles", func() {
			Expect(a.RHPPoles).To(Equal(2))
			Expect(a.Verdict()).To(Equal(Unstable))
			Expect(a.Stable()).To(BeFalse())
		})

		It("agrees with the computed roots", func() {
			Expect(a.RootsErr).NotTo(HaveOccurred())
			Expect(a.Roots).To(HaveLen(5))
			Expect(poly.CountRightHalfPlane(a.Roots, 1e-9)).To(Equal(a.RHPPoles))
		})

		It("has no degenerate rows", func() {
			Expect(a.Degenerate).To(BeEmpty())
		})
	})

	It("finds an underdamped second-order system stable", func() {
		a, err := Compute([]float64{1, 0.8, 4})
		Expect(err).NotTo(HaveOccurred())
		expectRows(a.Table, [][]float64{{1, 4}, {0.8, 0}, {4, 0}})
		Expect(a.RHPPoles).To(Equal(0))
		Expect(a.Verdict()).To(Equal(Stable))
		Expect(a.Stable()).To(BeTrue())
	})

	It("sizes the table as m rows by ceil(m/2) columns", func() {
		for m := 1; m <= 8; m++ {
			coeffs := make([]float64, m)
			for i := range coeffs {
				coeffs[i] = float64(i + 1)
			}
			a, err := Compute(coeffs)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Table).To(HaveLen(m))
			Expect(a.Table[0]).To(HaveLen((m + 1) / 2))
		}
	})

	It("treats a constant as a stable one-row table", func() {
		a, err := Compute([]float64{3})
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Table).To(HaveLen(1))
		Expect(a.Roots).To(BeEmpty())
		Expect(a.Verdict()).To(Equal(Stable))
	})

	It("detects instability from negative coefficients", func() {
		a, err := Compute([]float64{1, -3, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(a.RHPPoles).To(Equal(2))
	})

	It("accepts a polynomial with negative leading coefficient", func() {
		a, err := Compute([]float64{-1, -3, -2})
		Expect(err).NotTo(HaveOccurred())
		Expect(a.RHPPoles).To(Equal(0))
		Expect(a.Verdict()).To(Equal(Stable))
	})

	Context("with degenerate tables", func() {
		It("substitutes epsilon for a zero pivot", func() {
			a, err := Compute([]float64{1, 1, 2, 2, 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Table[2][0]).To(Equal(DefaultEpsilon))
			Expect(a.Table[3][0]).To(BeNumerically("~", -298, 1e-9))
			Expect(a.RHPPoles).To(Equal(2))
			Expect(a.Degenerate).To(ContainElement(Degeneracy{Row: 2, Kind: ZeroPivot}))
		})

		It("substitutes epsilon when the second row starts with zero", func() {
			a, err := Compute([]float64{1, 0, 2, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Table[1][0]).To(Equal(DefaultEpsilon))
			Expect(a.Degenerate[0]).To(Equal(Degeneracy{Row: 1, Kind: ZeroPivot}))
		})

		It("honours a custom epsilon", func() {
			a, err := ComputeWithOptions([]float64{1, 0, 2, 1}, Options{Epsilon: 1e-3})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Table[1][0]).To(Equal(1e-3))
			Expect(a.Epsilon).To(Equal(1e-3))
		})

		It("rejects a non-positive epsilon", func() {
			_, err := ComputeWithOptions([]float64{1, 2}, Options{Epsilon: 0})
			Expect(err).To(HaveOccurred())
		})

		It("replaces a zero row with the auxiliary polynomial derivative", func() {
			// (s^2-1)(s^2+25)(s+2)
			a, err := Compute([]float64{1, 2, 24, 48, -25, -50})
			Expect(err).NotTo(HaveOccurred())
			expectRows(a.Table, [][]float64{
				{1, 24, -25},
				{2, 48, -50},
				{8, 96, 0},
				{24, -50, 0},
				{2704.0 / 24.0, 0, 0},
				{-50, 0, 0},
			})
			Expect(a.HasZeroRow()).To(BeTrue())
			Expect(a.RHPPoles).To(Equal(1))
			Expect(a.Verdict()).To(Equal(Unstable))
		})

		It("flags imaginary-axis roots as marginal rather than stable", func() {
			// (s+1)(s^2+1)
			a, err := Compute([]float64{1, 1, 1, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.RHPPoles).To(Equal(0))
			Expect(a.HasZeroRow()).To(BeTrue())
			Expect(a.Verdict()).To(Equal(Marginal))
			Expect(a.Stable()).To(BeFalse())
		})
	})

	Context("with invalid input", func() {
		DescribeTable("rejects the polynomial",
			func(coeffs []float64, want error) {
				_, err := Compute(coeffs)
				Expect(err).To(MatchError(want))
			},
			Entry("zero leading coefficient", []float64{0, 1, 2}, ErrZeroLeadingCoefficient),
			Entry("empty", []float64{}, ErrInvalidPolynomial),
			Entry("NaN", []float64{1, math.NaN(), 2}, ErrInvalidPolynomial),
			Entry("Inf", []float64{1, math.Inf(-1)}, ErrInvalidPolynomial),
			Entry("all zero", []float64{0, 0, 0}, ErrInvalidPolynomial),
		)

		It("reports zero leading coefficient as an invalid polynomial too", func() {
			_, err := Compute([]float64{0, 1, 2})
			Expect(err).To(MatchError(ErrInvalidPolynomial))
		})
	})
})

var _ = Describe("Formatting", func() {
	It("labels rows from s^(m-1) down to s^0", func() {
		a, err := Compute([]float64{5, 4, 6, 9, 8, 7})
		Expect(err).NotTo(HaveOccurred())
		out := FormatTable(a.Table)
		lines := strings.Split(out, "\n")
		Expect(lines[0]).To(HavePrefix("┌"))
		Expect(lines[len(lines)-1]).To(HavePrefix("└"))
		Expect(out).To(ContainSubstring(" s^5"))
		Expect(out).To(ContainSubstring(" s^0"))
		Expect(strings.Index(out, "s^5")).To(BeNumerically("<", strings.Index(out, "s^0")))
		Expect(out).To(ContainSubstring("   -5.2500"))
		Expect(out).To(ContainSubstring("    8.4286"))
	})

	DescribeTable("cell values",
		func(v float64, want string) {
			Expect(formatCell(v)).To(Equal(want))
		},
		Entry("regular", 4.0, "    4.0000"),
		Entry("negative", -0.75, "   -0.7500"),
		Entry("small", 5e-5, "  5.00e-05"),
		Entry("zero", 1e-12, "    0.0000"),
	)

	It("renders the verdict, pole count and roots in the report", func() {
		coeffs := []float64{5, 4, 6, 9, 8, 7}
		a, err := Compute(coeffs)
		Expect(err).NotTo(HaveOccurred())
		report := FormatReport(coeffs, a)
		Expect(report).To(ContainSubstring("Δ(s) = 5.0000s^5 + 4.0000s^4 + 6.0000s^3 + 9.0000s^2 + 8.0000s + 7.0000 = 0"))
		Expect(report).To(ContainSubstring("Right half-plane poles: 2"))
		Expect(report).To(ContainSubstring("UNSTABLE - 2 pole(s) in the right half-plane"))
		Expect(report).To(ContainSubstring("Root 5:"))
	})

	It("reports a stable verdict", func() {
		coeffs := []float64{1, 0.8, 4}
		a, _ := Compute(coeffs)
		Expect(FormatReport(coeffs, a)).To(ContainSubstring("STABLE - all poles in the left half-plane"))
	})

	It("names degenerate substitutions in the report", func() {
		coeffs := []float64{1, 1, 1, 1}
		a, _ := Compute(coeffs)
		report := FormatReport(coeffs, a)
		Expect(report).To(ContainSubstring("MARGINAL"))
		Expect(report).To(ContainSubstring("Row s^1: zero row replaced"))
	})

	It("degrades gracefully when roots are unavailable", func() {
		a, _ := Compute([]float64{1, 2})
		a.Roots = nil
		a.RootsErr = ErrComputationFailure
		Expect(FormatReport([]float64{1, 2}, a)).To(ContainSubstring("roots unavailable"))
	})
})
