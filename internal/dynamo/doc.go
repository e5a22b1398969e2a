// Package dynamo provides the simulation primitives used to propagate
// spacecraft attitude.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: flat vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//   - [Controller]: feedback controller interface
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	dyn := physics.NewRigidBody(inertia)
//	integ := integrators.NewRK4()
//	sim := dynamo.New(dyn, integ, control.NewNone(3))
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel simulations,
// use the [Ensemble] type which builds one simulator per run.
package dynamo
