package integrators

import "github.com/san-kum/ltilab/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method. It reuses its
// stage buffers between calls and is not safe for concurrent use.
type RK4 struct {
	k      [4]dynamo.State
	stage  dynamo.State
	stages int
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) grow(n int) {
	if len(r.stage) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.stage = make(dynamo.State, n)
}

// offset writes x + h*k into the stage buffer.
func (r *RK4) offset(x, k dynamo.State, h float64) dynamo.State {
	for i := range x {
		r.stage[i] = x[i] + h*k[i]
	}
	return r.stage
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.grow(len(x))
	half := dt / 2

	copy(r.k[0], sys.Derive(x, u, t))
	copy(r.k[1], sys.Derive(r.offset(x, r.k[0], half), u, t+half))
	copy(r.k[2], sys.Derive(r.offset(x, r.k[1], half), u, t+half))
	copy(r.k[3], sys.Derive(r.offset(x, r.k[2], dt), u, t+dt))
	r.stages += 4

	next := make(dynamo.State, len(x))
	dt6 := dt / 6
	for i := range x {
		next[i] = x[i] + dt6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}

// Evaluations returns the number of derivative evaluations so far.
func (r *RK4) Evaluations() int {
	return r.stages
}
