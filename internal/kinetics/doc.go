// Package kinetics provides core primitives for simulating reaction-network
// ODE models of protein phosphorylation.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: species concentration vector
//   - [System]: interface for reaction networks (dX/dt = f(X, a, t))
//   - [Integrator]: numerical integrator interface
//   - [Drive]: time-varying enzyme activity source
//   - [Simulator]: orchestrates time-course and steady-state runs
//
// # Example
//
//	sys := models.NewStructural()
//	integ := integrators.NewRK4()
//	sim := kinetics.New(sys, integ, drives.NewConstant(sys.EnzymeDim()))
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Conservation
//
// Networks implementing [Conserved] carry a moiety invariant: the summed
// concentration of all phosphorylation-state species is constant. Run results
// report the relative drift of that total so solver tolerance problems are
// visible.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For sweeps over fitted parameter
// sets, use [Ensemble], which gives every member its own Simulator.
package kinetics
