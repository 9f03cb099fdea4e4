package integrators

import (
	"testing"

	"github.com/san-kum/ltilab/internal/dynamo"
)

// chain is a 6th-order cascade of unit lags, the size of a PID loop
// around a fourth-order plant.
type chain struct{}

func (chain) StateDim() int { return 6 }
func (chain) Output(x dynamo.State, u dynamo.Control) float64 {
	return x[len(x)-1]
}
func (chain) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx := make(dynamo.State, len(x))
	dx[0] = -x[0] + u.Scalar()
	for i := 1; i < len(x); i++ {
		dx[i] = -x[i] + x[i-1]
	}
	return dx
}

func benchmarkStep(b *testing.B, integ dynamo.Integrator, sys dynamo.System) {
	x := make(dynamo.State, sys.StateDim())
	u := dynamo.Control{1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(sys, x, u, 0, 0.01)
	}
}

func BenchmarkEuler(b *testing.B) { benchmarkStep(b, NewEuler(), oscillatorBench()) }
func BenchmarkRK4(b *testing.B)   { benchmarkStep(b, NewRK4(), oscillatorBench()) }
func BenchmarkRK45(b *testing.B)  { benchmarkStep(b, NewRK45(), oscillatorBench()) }

func BenchmarkRK4Chain(b *testing.B)  { benchmarkStep(b, NewRK4(), chain{}) }
func BenchmarkRK45Chain(b *testing.B) { benchmarkStep(b, NewRK45(), chain{}) }

func oscillatorBench() dynamo.System { return oscillator{} }
