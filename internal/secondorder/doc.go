// Package secondorder characterizes second-order transfer functions
//
//	G(s) = K·ωn² / (s² + 2ζωn·s + ωn²)
//
// The workflow is extract, characterize, sample:
//
//	p, err := secondorder.Extract([]float64{4}, []float64{1, 0.8, 4}, secondorder.ClosedLoop)
//	if err != nil {
//	    return err
//	}
//	c := secondorder.Characterize(p, secondorder.ClosedLoop, secondorder.Step)
//	traj, _ := secondorder.SampleTimeResponse(p, secondorder.ClosedLoop, secondorder.Step, secondorder.SampleOptions{})
//	for t, y := range traj.All() {
//	    ...
//	}
//
// [Params] is an immutable value; nothing is cached between calls.
// Metrics that do not apply to a damping regime are reported as
// undefined [Quantity] values rather than errors.
package secondorder
