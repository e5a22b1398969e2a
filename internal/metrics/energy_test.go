package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/physics"
)

func testBody() *physics.RigidBody {
	return physics.NewRigidBody(physics.MustInertia([9]float64{10, 0, 0, 0, 5, 0, 0, 0, 2}))
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy(testBody())

	// ½ωᵀJω: 0.05 and 0.4
	m.Observe(dynamo.State{0, 0, 0, 0.1, 0, 0}, nil, 0)
	m.Observe(dynamo.State{0, 0, 0, 0, 0.4, 0}, nil, 1)

	if got, want := m.Value(), 0.225; math.Abs(got-want) > 1e-12 {
		t.Errorf("energy = %f, want %f", got, want)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(testBody())
	m.Observe(dynamo.State{0, 0, 0, 1, 1, 1}, nil, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(testBody())
	m.Observe(dynamo.State{0, 0, 0, 0.1, 0, 0}, nil, 0)
	m.Observe(dynamo.State{0, 0, 0, 0.11, 0, 0}, nil, 1)
	m.Observe(dynamo.State{0, 0, 0, 0.1, 0, 0}, nil, 2)

	if got, want := m.Value(), 0.21; math.Abs(got-want) > 1e-12 {
		t.Errorf("drift = %f, want %f", got, want)
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift(testBody())
	m.Observe(dynamo.State{0, 0, 0, 0.1, 0, 0}, nil, 0)
	m.Observe(dynamo.State{0.5, 0.2, 0, 0, 0.2, 0}, nil, 1)

	if got := m.Value(); got != 0 {
		t.Errorf("drift = %e, want 0 for equal ‖Jω‖", got)
	}

	m.Observe(dynamo.State{0, 0, 0, 0.2, 0, 0}, nil, 2)
	if got := m.Value(); math.Abs(got-1) > 1e-12 {
		t.Errorf("drift = %f, want 1", got)
	}
}
