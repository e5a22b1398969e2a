package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/attsim/internal/attitude"
	"github.com/san-kum/attsim/internal/dynamo"
)

func testInertia(t *testing.T) Inertia {
	t.Helper()
	in, err := DiagInertia(1, 2, 3)
	if err != nil {
		t.Fatalf("inertia: %v", err)
	}
	return in
}

func TestNewInertia(t *testing.T) {
	in := testInertia(t)
	want := attitude.Diag(1, 0.5, 1.0/3.0)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(in.Inv[i][j]-want[i][j]) > 1e-12 {
				t.Fatalf("Inv(%d, %d) = %v, want %v", i, j, in.Inv[i][j], want[i][j])
			}
		}
	}

	full, err := NewInertia([9]float64{10, 1, 0.5, 1, 8, -0.3, 0.5, -0.3, 6})
	if err != nil {
		t.Fatalf("full inertia: %v", err)
	}
	prod := full.J.Mul(full.Inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(prod[i][j]-attitude.Identity3[i][j]) > 1e-12 {
				t.Fatalf("J·J⁻¹ (%d, %d) = %v", i, j, prod[i][j])
			}
		}
	}
}

func TestNewInertiaRejects(t *testing.T) {
	tests := []struct {
		name   string
		values [9]float64
		want   error
	}{
		{"asymmetric", [9]float64{1, 0.2, 0, 0, 1, 0, 0, 0, 1}, ErrNotSymmetric},
		{"singular", [9]float64{1, 0, 0, 0, 0, 0, 0, 0, 1}, ErrNotPositiveDefinite},
		{"negative", [9]float64{-1, 0, 0, 0, 2, 0, 0, 0, 3}, ErrNotPositiveDefinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewInertia(tt.values); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStatePacking(t *testing.T) {
	x := dynamo.State{1, 2, 3, 4, 5, 6}
	s := ToAttitude(x)
	if s.Sigma() != (attitude.Vec3{1, 2, 3}) || s.Omega() != (attitude.Vec3{4, 5, 6}) {
		t.Fatalf("unexpected unpack: %v", s)
	}
	back := FromAttitude(s)
	for i := range x {
		if back[i] != x[i] {
			t.Fatalf("round trip mismatch at %d: %v", i, back)
		}
	}
	if tau := Torque(dynamo.Control{1}); tau != (attitude.Vec3{1, 0, 0}) {
		t.Errorf("short control not zero padded: %v", tau)
	}
}

func TestModelsDimensions(t *testing.T) {
	in := testInertia(t)
	for _, dyn := range []dynamo.System{
		NewRigidBody(in),
		NewReferenceFrame(in, attitude.Vec3{}),
		NewReactionWheels(in, attitude.Vec3{}),
	} {
		if dyn.StateDim() != 6 || dyn.ControlDim() != 3 {
			t.Errorf("%T: dims %d/%d", dyn, dyn.StateDim(), dyn.ControlDim())
		}
	}
}

func TestRigidBodyDerive(t *testing.T) {
	in := testInertia(t)
	rb := NewRigidBody(in)

	x := dynamo.State{0.1, 0.2, 0.3, 0.01, 0.02, 0.03}
	dx := rb.Derive(x, dynamo.Control{0, 0, 0}, 0)
	want := dynamo.State{0.00285, 0.0057, 0.00855, -0.0006, 0.0003, -0.0002 / 3.0}
	for i := range want {
		if math.Abs(dx[i]-want[i]) > 1e-12 {
			t.Fatalf("dx[%d] = %v, want %v", i, dx[i], want[i])
		}
	}
}

func TestVariantsReduceToRigidBody(t *testing.T) {
	in := testInertia(t)
	x := dynamo.State{0.2, -0.1, 0.05, 0.3, 0.1, -0.4}
	u := dynamo.Control{0.01, 0.02, -0.03}

	base := NewRigidBody(in).Derive(x, u, 0)
	ref := NewReferenceFrame(in, attitude.Vec3{}).Derive(x, u, 0)
	rw := NewReactionWheels(in, attitude.Vec3{}).Derive(x, u, 0)

	for i := range base {
		if math.Abs(ref[i]-base[i]) > 1e-12 || math.Abs(rw[i]-base[i]) > 1e-12 {
			t.Fatalf("component %d: base %v ref %v rw %v", i, base[i], ref[i], rw[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	rb := NewRigidBody(testInertia(t))

	x := dynamo.State{3.81263, -5.30509, -2.945, 0.1, 0.2, 0.3}
	n := rb.Normalize(x)
	if s := ToAttitude(n).Sigma(); s.Norm() > 1 {
		t.Errorf("σ not switched: %v", s)
	}
	if n[3] != 0.1 || n[4] != 0.2 || n[5] != 0.3 {
		t.Errorf("ω changed by normalisation: %v", n)
	}

	short := dynamo.State{0.1, 0, 0, 1, 1, 1}
	if got := rb.Normalize(short); &got[0] != &short[0] {
		t.Error("short state should be returned unchanged")
	}
}

func TestEnergyAndMomentum(t *testing.T) {
	in, err := DiagInertia(10, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	x := dynamo.State{0.3, -0.4, 0.5, 0.1, 0.4, -0.2}

	rb := NewRigidBody(in)
	if e := rb.Energy(x); math.Abs(e-0.49) > 1e-12 {
		t.Errorf("energy = %v, want 0.49", e)
	}
	if m := rb.Momentum(x); math.Abs(m-2.271563338320109) > 1e-12 {
		t.Errorf("momentum = %v", m)
	}

	rw := NewReactionWheels(in, attitude.Vec3{-1, -2, 0.4})
	if m := rw.Momentum(x); m > 1e-12 {
		t.Errorf("wheels should cancel body momentum, got %v", m)
	}
}

func TestSetParam(t *testing.T) {
	rw := NewReactionWheels(testInertia(t), attitude.Vec3{})

	if err := rw.SetParam("J22", 4); err != nil {
		t.Fatalf("SetParam J22: %v", err)
	}
	if rw.Inertia.J[1][1] != 4 || math.Abs(rw.Inertia.Inv[1][1]-0.25) > 1e-12 {
		t.Errorf("inertia not refreshed: %v / %v", rw.Inertia.J, rw.Inertia.Inv)
	}

	if err := rw.SetParam("J33", -1); !errors.Is(err, ErrNotPositiveDefinite) {
		t.Errorf("expected ErrNotPositiveDefinite, got %v", err)
	}
	if rw.Inertia.J[2][2] != 3 {
		t.Error("invalid inertia should not be applied")
	}

	if err := rw.SetParam("hs2", 0.7); err != nil || rw.Hs[1] != 0.7 {
		t.Errorf("hs2 not applied: %v %v", err, rw.Hs)
	}
	if err := rw.SetParam("bogus", 1); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	ref := NewReferenceFrame(testInertia(t), attitude.Vec3{})
	if err := ref.SetParam("wr3", 0.01); err != nil || ref.GetParams()["wr3"] != 0.01 {
		t.Errorf("wr3 not applied: %v %v", err, ref.GetParams())
	}
}
