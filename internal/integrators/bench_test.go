package integrators

import (
	"testing"

	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/physics"
)

func benchSpacecraft(b *testing.B) (*physics.RigidBody, dynamo.State) {
	b.Helper()
	in, err := physics.DiagInertia(10, 5, 2)
	if err != nil {
		b.Fatal(err)
	}
	return physics.NewRigidBody(in), dynamo.State{0.3, -0.4, 0.5, 0.1, 0.4, -0.2}
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn, x := benchSpacecraft(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn, x := benchSpacecraft(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	dyn, x := benchSpacecraft(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.01)
	}
}
