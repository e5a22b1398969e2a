package control

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/attsim/internal/attitude"
	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/integrators"
	"github.com/san-kum/attsim/internal/physics"
)

func TestNone(t *testing.T) {
	u := NewNone(3).Compute(dynamo.State{1, 2, 3, 4, 5, 6}, 0)
	if len(u) != 3 {
		t.Fatalf("len(u) = %d, want 3", len(u))
	}
	for i, v := range u {
		if v != 0 {
			t.Errorf("u[%d] = %f, want 0", i, v)
		}
	}
}

func TestAttitudeLQR(t *testing.T) {
	c := NewAttitudeLQR(2, 5)
	u := c.Compute(dynamo.State{0.1, -0.2, 0.3, 0.01, 0.02, -0.03}, 0)
	want := []float64{-0.25, 0.3, -0.45}
	for i := range want {
		if math.Abs(u[i]-want[i]) > 1e-12 {
			t.Errorf("u[%d] = %f, want %f", i, u[i], want[i])
		}
	}
}

func TestMRPFeedbackAtTarget(t *testing.T) {
	c := NewMRPFeedback(1, 3)
	c.SigmaRef = attitude.Vec3{0.1, 0.2, -0.3}
	c.OmegaRef = attitude.Vec3{0, 0, 0.01}

	u := c.Compute(dynamo.State{0.1, 0.2, -0.3, 0, 0, 0.01}, 0)
	for i, v := range u {
		if math.Abs(v) > 1e-15 {
			t.Errorf("u[%d] = %e, want 0", i, v)
		}
	}
}

func TestMRPFeedbackLaw(t *testing.T) {
	c := NewMRPFeedback(2, 5)
	u := c.Compute(dynamo.State{0.1, 0, 0, 0, 0.01, 0}, 0)
	want := []float64{-0.2, -0.05, 0}
	for i := range want {
		if math.Abs(u[i]-want[i]) > 1e-15 {
			t.Errorf("u[%d] = %f, want %f", i, u[i], want[i])
		}
	}
}

func TestMRPFeedbackTakesShortRotation(t *testing.T) {
	c := NewMRPFeedback(1, 0)
	c.SigmaRef = attitude.Vec3{-0.8, 0, 0}

	sigmaBR, _ := c.Error(dynamo.State{0.8, 0, 0, 0, 0, 0})
	if sigmaBR.Norm() > 1 {
		t.Fatalf("σ_BR = %v is the long rotation", sigmaBR)
	}
	if math.Abs(sigmaBR[0]+0.225) > 1e-12 {
		t.Errorf("σ_BR[0] = %f, want -0.225", sigmaBR[0])
	}
	if u := c.Compute(dynamo.State{0.8, 0, 0, 0, 0, 0}, 0); u[0] <= 0 {
		t.Errorf("u[0] = %f, want positive torque", u[0])
	}
}

func TestMRPFeedbackSaturation(t *testing.T) {
	c := NewMRPFeedback(100, 100)
	c.MaxTorque = 0.5
	u := c.Compute(dynamo.State{0.3, -0.4, 0.001, 1, -1, 0}, 0)
	for i, v := range u {
		if math.Abs(v) > 0.5 {
			t.Errorf("|u[%d]| = %f exceeds limit", i, v)
		}
	}
	if u[0] != -0.5 || u[1] != 0.5 {
		t.Errorf("u = %v, want saturated first two axes", u)
	}
}

func TestMRPFeedbackParams(t *testing.T) {
	c := NewMRPFeedback(1, 3)
	if err := c.SetParam("K", 0.5); err != nil {
		t.Fatal(err)
	}
	if got := c.GetParams()["K"]; got != 0.5 {
		t.Errorf("K = %f, want 0.5", got)
	}

	tests := []struct {
		name  string
		value float64
	}{
		{"Ki", 1},
		{"P", -1},
		{"umax", math.NaN()},
	}
	for _, tt := range tests {
		if err := c.SetParam(tt.name, tt.value); !errors.Is(err, dynamo.ErrInvalidConfig) {
			t.Errorf("SetParam(%q, %v) = %v, want ErrInvalidConfig", tt.name, tt.value, err)
		}
	}
}

func TestMRPFeedbackClosedLoop(t *testing.T) {
	dyn := physics.NewRigidBody(physics.MustInertia([9]float64{10, 0, 0, 0, 5, 0, 0, 0, 2}))
	c := NewMRPFeedback(1, 3)
	c.SigmaRef = attitude.Vec3{0.1, 0.2, -0.3}

	sim := dynamo.New(dyn, integrators.NewRK4(), c)
	cfg := dynamo.DefaultConfig()
	cfg.Dt = 0.1
	cfg.Duration = 300

	res, err := sim.Run(t.Context(), dynamo.State{0.3, -0.4, 0.5, 0.1, 0.4, -0.2}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	sigmaBR, deltaOmega := c.Error(res.Final())
	if deg := attitude.PrincipalAngle(sigmaBR) * 180 / math.Pi; deg > 1e-3 {
		t.Errorf("pointing error %.6f deg after %d steps", deg, res.StepsTaken)
	}
	if deltaOmega.Norm() > 1e-6 {
		t.Errorf("residual rate %e", deltaOmega.Norm())
	}
}
