package integrators

import "github.com/san-kum/attsim/internal/dynamo"

// Euler is the explicit first-order stepper. Mostly useful as a baseline
// when comparing drift against RK4 and RK45.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	return x.AddScaled(dt, dyn.Derive(x, u, t))
}
