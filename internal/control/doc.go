// Package control provides attitude controllers for the spacecraft models.
//
// Controllers implement the [dynamo.Controller] interface and return a body
// torque for the current state:
//
//   - [MRPFeedback]: nonlinear MRP tracking law u = −Kσ_BR − P(ω − ω_r)
//   - [LQR]: linear state feedback about a fixed target
//   - [None]: zero torque
//
// # Usage
//
//	ctrl := control.NewMRPFeedback(6.0, 60.0)
//	ctrl.SigmaRef = attitude.Vec3{0.1, 0.2, -0.3}
//	sim := dynamo.New(dyn, integ, ctrl)
//
// Controllers implementing [dynamo.Configurable] support live tuning.
package control
