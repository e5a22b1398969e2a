// Package physics provides spacecraft attitude models for simulation.
//
// Each model implements the [dynamo.System] interface over the flat state
// [σ1, σ2, σ3, ω1, ω2, ω3] and a 3-axis body torque control:
//
//   - [RigidBody]: torque-driven rigid spacecraft
//   - [ReferenceFrame]: attitude relative to a rotating reference frame
//   - [ReactionWheels]: rigid spacecraft with stored wheel momentum
//
// All models implement [dynamo.Hamiltonian] (rotational kinetic energy),
// [dynamo.Normalizer] (MRP shadow-set switching) and [dynamo.Configurable].
//
// # Inertia
//
// [NewInertia] checks that the tensor is symmetric positive definite and
// caches its inverse, so derivative evaluation never inverts a matrix:
//
//	in, err := physics.DiagInertia(10, 5, 2)
//	if err != nil {
//	    return err
//	}
//	dyn := physics.NewRigidBody(in)
package physics
