// Package control provides PI, PD and PID compensators as transfer
// functions and compares a plant with and without one:
//
//	comp := control.Compensator{Kind: control.PID, Kp: 1, Ki: 0.5, Kd: 0.1}
//	cmp, err := control.Compare(ctx, plant, comp, lti.SimOptions{})
//
// The plant is shown open loop; the compensated system is the unity
// feedback loop around comp·plant.
package control
