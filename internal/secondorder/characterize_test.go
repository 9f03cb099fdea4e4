package secondorder

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func mustParams(wn, zeta, gain float64) Params {
	p, err := FromStandardForm(wn, zeta, gain)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Characterize", func() {
	It("computes the underdamped metrics for ζ=0.5, ωn=10", func() {
		c := Characterize(mustParams(10, 0.5, 1), ClosedLoop, Step)
		Expect(c.Regime).To(Equal(Underdamped))
		Expect(c.Wd.Value).To(BeNumerically("~", 10*math.Sqrt(0.75), 1e-12))
		Expect(c.PeakTime.Defined).To(BeTrue())
		Expect(c.PeakTime.Value).To(BeNumerically("~", 0.3628, 1e-4))
		Expect(c.Overshoot.Value).To(BeNumerically("~", 16.30, 0.01))
		Expect(c.SettlingTime2.Value).To(BeNumerically("~", 0.8, 1e-12))
		Expect(c.SettlingTime5.Value).To(BeNumerically("~", 0.6, 1e-12))
		Expect(c.RiseTime.Value).To(BeNumerically("~", (math.Pi-math.Atan(math.Sqrt(0.75)/0.5))/c.Wd.Value, 1e-12))
		Expect(c.DecayRate.Value).To(BeNumerically("~", 5, 1e-12))
		Expect(c.TimeConstant.Defined).To(BeFalse())
	})

	It("computes the critically damped metrics for ζ=1, ωn=8", func() {
		c := Characterize(mustParams(8, 1, 1), ClosedLoop, Step)
		Expect(c.Regime).To(Equal(CriticallyDamped))
		Expect(c.Poles[0]).To(Equal(complex(-8, 0)))
		Expect(c.Poles[1]).To(Equal(complex(-8, 0)))
		Expect(c.RiseTime.Value).To(BeNumerically("~", 0.275, 1e-12))
		Expect(c.Overshoot).To(Equal(Defined(0)))
		Expect(c.PeakTime.Defined).To(BeFalse())
		Expect(c.Wd.Defined).To(BeFalse())
		Expect(c.TimeConstant.Value).To(BeNumerically("~", 0.125, 1e-12))
	})

	It("approximates the overdamped rise time from ζωn", func() {
		c := Characterize(mustParams(2, 2.5, 1), ClosedLoop, Step)
		Expect(c.Regime).To(Equal(Overdamped))
		Expect(c.RiseTime.Value).To(BeNumerically("~", 2.2/5, 1e-12))
		Expect(c.Overshoot).To(Equal(Defined(0)))
		Expect(c.PeakTime.Defined).To(BeFalse())
	})

	It("reports infinite overshoot and no settling for an undamped system", func() {
		c := Characterize(mustParams(4, 0, 1), ClosedLoop, Step)
		Expect(c.Regime).To(Equal(Undamped))
		Expect(c.Overshoot.IsInf()).To(BeTrue())
		Expect(c.Period.Value).To(BeNumerically("~", 2*math.Pi/4, 1e-12))
		Expect(c.PeakTime.Value).To(BeNumerically("~", math.Pi/4, 1e-12))
		Expect(c.SettlingTime2.Defined).To(BeFalse())
		Expect(c.SettlingTime5.Defined).To(BeFalse())
		Expect(c.SteadyStateError.Defined).To(BeFalse())
		Expect(c.Stable()).To(BeFalse())
	})

	It("leaves every time metric undefined when unstable", func() {
		c := Characterize(mustParams(3, -0.4, 1), ClosedLoop, Step)
		Expect(c.Regime).To(Equal(Unstable))
		for _, q := range []Quantity{c.RiseTime, c.PeakTime, c.Overshoot, c.SettlingTime2, c.SettlingTime5, c.SteadyStateError, c.FinalValue} {
			Expect(q.Defined).To(BeFalse())
		}
		Expect(real(c.Poles[0])).To(BeNumerically(">", 0))
	})

	Describe("steady-state error", func() {
		It("is |1-K| for a closed-loop step", func() {
			c := Characterize(mustParams(2, 0.5, 1.25), ClosedLoop, Step)
			Expect(c.SteadyStateError.Value).To(BeNumerically("~", 0.25, 1e-12))
			Expect(c.FinalValue.Value).To(BeNumerically("~", 1.25, 1e-12))
		})

		It("is 1/(Kωn²) for a closed-loop ramp", func() {
			c := Characterize(mustParams(2, 0.5, 0.5), ClosedLoop, Ramp)
			Expect(c.SteadyStateError.Value).To(BeNumerically("~", 0.5, 1e-12))
			Expect(c.FinalValue.IsInf()).To(BeTrue())
		})

		It("is infinite for a zero-gain ramp", func() {
			c := Characterize(mustParams(2, 0.5, 0), ClosedLoop, Ramp)
			Expect(c.SteadyStateError.IsInf()).To(BeTrue())
		})

		It("is undefined in open loop", func() {
			for _, in := range []Input{Step, Ramp} {
				c := Characterize(mustParams(2, 0.5, 1), OpenLoop, in)
				Expect(c.SteadyStateError.Defined).To(BeFalse())
			}
		})
	})
})

var _ = Describe("Poles", func() {
	It("returns a conjugate pair below critical damping", func() {
		s := Poles(mustParams(2, 0.2, 1))
		Expect(real(s[0])).To(BeNumerically("~", -0.4, 1e-12))
		Expect(imag(s[0])).To(BeNumerically("~", 2*math.Sqrt(0.96), 1e-12))
		Expect(s[1]).To(Equal(complex(real(s[0]), -imag(s[0]))))
	})

	It("returns distinct real poles whose product is ωn²", func() {
		s := Poles(mustParams(2, 2.5, 1))
		Expect(imag(s[0])).To(BeZero())
		Expect(imag(s[1])).To(BeZero())
		Expect(real(s[0])).To(BeNumerically(">", real(s[1])))
		Expect(real(s[0]) * real(s[1])).To(BeNumerically("~", 4, 1e-9))
		Expect(real(s[0]) + real(s[1])).To(BeNumerically("~", -10, 1e-9))
	})

	It("places undamped poles on the imaginary axis", func() {
		s := Poles(mustParams(3, 0, 1))
		Expect(s[0]).To(Equal(complex(0, 3)))
	})

	It("mirrors stable poles for negative damping", func() {
		s := Poles(mustParams(2, -2.5, 1))
		Expect(real(s[0])).To(BeNumerically(">", 0))
		Expect(real(s[1])).To(BeNumerically(">", 0))
		Expect(real(s[0]) * real(s[1])).To(BeNumerically("~", 4, 1e-9))
	})
})

var _ = Describe("Quantity", func() {
	It("formats defined, infinite and undefined values", func() {
		Expect(Defined(0.36276).Format("%.4f s", "n/a")).To(Equal("0.3628 s"))
		Expect(Defined(math.Inf(1)).Format("%.4f", "n/a")).To(Equal("∞"))
		Expect(Undefined.Format("%.4f", "n/a")).To(Equal("n/a"))
	})
})
