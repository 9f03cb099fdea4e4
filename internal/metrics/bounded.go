package metrics

import (
	"math"

	"github.com/san-kum/ltilab/internal/dynamo"
)

// Bounded is the fraction of samples whose output stays within threshold.
// A value below 1 flags a diverging response.
type Bounded struct {
	threshold  float64
	violations int
	samples    int
	firstEsc   float64
}

func NewBounded(threshold float64) *Bounded {
	return &Bounded{threshold: threshold, firstEsc: math.NaN()}
}

func (b *Bounded) Name() string {
	return "bounded"
}

func (b *Bounded) Observe(s dynamo.Sample) {
	b.samples++
	if math.Abs(s.Y) > b.threshold || math.IsNaN(s.Y) {
		if b.violations == 0 {
			b.firstEsc = s.T
		}
		b.violations++
	}
}

func (b *Bounded) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

// Escaped reports the first time the output left the bound.
func (b *Bounded) Escaped() (float64, bool) {
	return b.firstEsc, b.violations > 0
}

func (b *Bounded) Reset() {
	b.violations = 0
	b.samples = 0
	b.firstEsc = math.NaN()
}
