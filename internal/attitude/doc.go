// Package attitude evaluates the rotational equations of motion of a rigid
// spacecraft parametrized with Modified Rodrigues Parameters (MRP).
//
// The package provides three derivative evaluators sharing one structure:
//
//   - [StateDot]: MRP kinematics plus Euler's rotational equation
//   - [StateDotRefFrame]: attitude rate relative to a rotating reference frame
//   - [StateDotReactionWheels]: dynamics coupled to reaction-wheel momentum
//
// A [State] is a pair of 3-vectors, row 0 holding σ and row 1 holding ω.
// Every evaluator returns the derivative in the same shape.
//
// # Example
//
//	J := attitude.Diag(1, 2, 3)
//	Jinv := attitude.Diag(1, 0.5, 1.0/3)
//	x := attitude.State{{0.1, 0.2, 0.3}, {0.01, 0.02, 0.03}}
//	dx := attitude.StateDot(x, attitude.Vec3{}, J, Jinv)
//
// # Numerics
//
// Evaluators never validate their input. A singular inertia, a NaN or an
// MRP close to its singularity flows through as a degenerate result. Use
// [Short] between integration steps to keep σ inside the unit sphere.
//
// All functions operate on fixed-size value types and are safe for
// concurrent use.
package attitude
