package secondorder

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// trapezoid integrates ys sampled at ts.
func trapezoid(ts, ys []float64) float64 {
	sum := 0.0
	for i := 1; i < len(ts); i++ {
		sum += (ts[i] - ts[i-1]) * (ys[i] + ys[i-1]) / 2
	}
	return sum
}

var _ = Describe("SampleTimeResponse", func() {
	It("applies the default sample count and horizon", func() {
		p := mustParams(2, 0.2, 1)
		tr, err := SampleTimeResponse(p, ClosedLoop, Step, SampleOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(DefaultPoints))
		Expect(tr.Horizon()).To(BeNumerically("~", 1.5*4/(0.2*2), 1e-12))

		ts := tr.Times()
		Expect(ts[0]).To(BeZero())
		Expect(ts[len(ts)-1]).To(Equal(tr.Horizon()))
	})

	It("falls back to a fixed horizon when ζ <= 0", func() {
		for _, zeta := range []float64{0, -0.5} {
			tr, err := SampleTimeResponse(mustParams(2, zeta, 1), ClosedLoop, Step, SampleOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Horizon()).To(Equal(DefaultFallbackHorizon))
		}
	})

	DescribeTable("rejects invalid sampling",
		func(opts SampleOptions) {
			_, err := SampleTimeResponse(mustParams(2, 0.5, 1), ClosedLoop, Step, opts)
			Expect(err).To(MatchError(ErrInvalidSampling))
		},
		Entry("one point", SampleOptions{Points: 1}),
		Entry("negative points", SampleOptions{Points: -4}),
		Entry("negative horizon", SampleOptions{Horizon: -1}),
		Entry("NaN horizon", SampleOptions{Horizon: math.NaN()}),
	)

	It("can be iterated more than once", func() {
		tr, err := SampleTimeResponse(mustParams(5, 0.3, 2), OpenLoop, Step, SampleOptions{Points: 50})
		Expect(err).NotTo(HaveOccurred())
		first := tr.Values()
		second := tr.Values()
		Expect(second).To(Equal(first))

		n := 0
		for range tr.All() {
			n++
			if n == 10 {
				break
			}
		}
		Expect(n).To(Equal(10))
		Expect(tr.Values()).To(HaveLen(50))
	})

	It("starts at zero and settles at K for an underdamped step", func() {
		tr, err := SampleTimeResponse(mustParams(2, 0.2, 1.5), ClosedLoop, Step, SampleOptions{})
		Expect(err).NotTo(HaveOccurred())
		ys := tr.Values()
		Expect(ys[0]).To(BeNumerically("~", 0, 1e-12))
		Expect(ys[len(ys)-1]).To(BeNumerically("~", 1.5, 0.01))
	})

	It("peaks at Tp with the analytic overshoot", func() {
		p := mustParams(10, 0.5, 1)
		tr, err := SampleTimeResponse(p, ClosedLoop, Step, SampleOptions{Points: 2001})
		Expect(err).NotTo(HaveOccurred())
		peak, tPeak := math.Inf(-1), 0.0
		for t, y := range tr.All() {
			if y > peak {
				peak, tPeak = y, t
			}
		}
		c := Characterize(p, ClosedLoop, Step)
		Expect(tPeak).To(BeNumerically("~", c.PeakTime.Value, 2e-3))
		Expect((peak - 1) * 100).To(BeNumerically("~", c.Overshoot.Value, 1e-3))
	})

	It("rises monotonically to K without overshoot at and above critical damping", func() {
		for _, zeta := range []float64{1, 2.5} {
			tr, err := SampleTimeResponse(mustParams(3, zeta, 1), ClosedLoop, Step, SampleOptions{})
			Expect(err).NotTo(HaveOccurred())
			prev := -1.0
			for _, y := range tr.All() {
				Expect(y).To(BeNumerically(">=", prev-1e-12))
				Expect(y).To(BeNumerically("<=", 1+1e-12))
				prev = y
			}
		}
		Expect(Evaluate(mustParams(3, 1, 1), Step, 2)).To(BeNumerically("~", 1, 0.02))
		Expect(Evaluate(mustParams(3, 2.5, 1), Step, 20)).To(BeNumerically("~", 1, 1e-4))
	})

	It("oscillates between 0 and 2K when undamped", func() {
		p := mustParams(2, 0, 1)
		Expect(Evaluate(p, Step, math.Pi/2)).To(BeNumerically("~", 2, 1e-12))
		Expect(Evaluate(p, Step, math.Pi)).To(BeNumerically("~", 0, 1e-12))
		Expect(Evaluate(p, Ramp, 1)).To(BeNumerically("~", 1-math.Sin(2)/2, 1e-12))
	})

	It("diverges for negative damping", func() {
		p := mustParams(2, -0.2, 1)
		Expect(math.Abs(Evaluate(p, Step, 20) - 1)).To(BeNumerically(">", 10))
	})

	DescribeTable("integrates the step response into the ramp response",
		func(zeta float64) {
			p := mustParams(2, zeta, 1.3)
			step, err := SampleTimeResponse(p, ClosedLoop, Step, SampleOptions{Horizon: 5, Points: 20001})
			Expect(err).NotTo(HaveOccurred())
			want := trapezoid(step.Times(), step.Values())
			got := Evaluate(p, Ramp, 5)
			Expect(got).To(BeNumerically("~", want, 1e-5*math.Max(1, math.Abs(want))))
			Expect(Evaluate(p, Ramp, 0)).To(BeNumerically("~", 0, 1e-12))
		},
		Entry("undamped", 0.0),
		Entry("underdamped", 0.3),
		Entry("critically damped", 1.0),
		Entry("overdamped", 2.5),
		Entry("unstable oscillatory", -0.2),
		Entry("unstable repeated", -1.0),
	)

	It("tracks a ramp with lag 2ζ/ωn when K=1", func() {
		p := mustParams(2, 0.5, 1)
		ramp := Evaluate(p, Ramp, 40)
		Expect(40 - ramp).To(BeNumerically("~", 2*0.5/2, 1e-6))
	})

	It("describes itself", func() {
		tr, err := SampleTimeResponse(mustParams(2, 0.5, 1), OpenLoop, Ramp, SampleOptions{Horizon: 3, Points: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.String()).To(Equal("open ramp response, 10 points on [0, 3] s"))
		Expect(tr.Loop()).To(Equal(OpenLoop))
		Expect(tr.Input()).To(Equal(Ramp))
	})
})
