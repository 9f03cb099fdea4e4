// Package dynamo provides the numerical simulation primitives used to
// compute time responses of linear systems of arbitrary order.
//
//   - [State]: state vector of a realized system
//   - [System]: dX/dt = f(X, u, t) with a scalar output y = g(X, u)
//   - [Integrator]: numerical stepper
//   - [Source]: input signal driving the system
//   - [Metric]: scalar summary observed while the simulation runs
//   - [Simulator]: orchestrates a run
//
// # Example
//
//	sys, _ := lti.Realize(tf)
//	s := dynamo.New(sys, integrators.NewRK4(), lti.StepInput(1))
//	result, err := s.Run(ctx, sys.ZeroState(), dynamo.DefaultConfig())
//
// Simulator instances are not safe for concurrent use; build one per run.
package dynamo
