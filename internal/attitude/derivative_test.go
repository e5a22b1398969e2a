package attitude

import (
	"math"
	"testing"
)

const ε = 1e-12

var (
	testJ    = Diag(1, 2, 3)
	testJinv = Diag(1, 0.5, 1.0/3.0)
)

func assertVec(t *testing.T, name string, got, want Vec3, tol float64) {
	t.Helper()
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > tol {
			t.Fatalf("%s[%d] = %.15f, want %.15f (diff %.3e)", name, i, got[i], want[i], diff)
		}
	}
}

func assertState(t *testing.T, got, want State, tol float64) {
	t.Helper()
	assertVec(t, "dσ", got[0], want[0], tol)
	assertVec(t, "dω", got[1], want[1], tol)
}

// closedForm expands the MRP and Euler equations component-wise for a diagonal inertia.
func closedForm(x State, tau Vec3, j [3]float64) State {
	s, w := x[0], x[1]
	s2 := s.Dot(s)
	sw := s.Dot(w)
	c := s.Cross(w)
	var ds Vec3
	for i := 0; i < 3; i++ {
		ds[i] = 0.25 * ((1-s2)*w[i] + 2*c[i] + 2*sw*s[i])
	}
	dw := Vec3{
		((j[1]-j[2])*w[1]*w[2] + tau[0]) / j[0],
		((j[2]-j[0])*w[2]*w[0] + tau[1]) / j[1],
		((j[0]-j[1])*w[0]*w[1] + tau[2]) / j[2],
	}
	return State{ds, dw}
}

func TestSkew(t *testing.T) {
	v := Vec3{-0.295067, 0.410571, 0.227921}
	m := Skew(v)
	want := Mat3{
		{0, -0.227921, 0.410571},
		{0.227921, 0, 0.295067},
		{-0.410571, -0.295067, 0},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-want[i][j]) > ε {
				t.Fatalf("~(%d, %d) = %2.6f, want %2.6f", i, j, m[i][j], want[i][j])
			}
			if math.Abs(m[i][j]+m[j][i]) > ε {
				t.Fatalf("not skew-symmetric at (%d, %d)", i, j)
			}
		}
	}

	x := Vec3{1.5, -2, 0.25}
	assertVec(t, "[v]x·x", m.MulVec(x), v.Cross(x), ε)
}

func TestBMatrix(t *testing.T) {
	sigma := Vec3{-0.074243348654559, 0.103306024060508, 0.057347988603058}
	want := Mat3{
		{0.991551148415436, -0.130035547530997, 0.198096634696028},
		{0.099356406881235, 1.001871267990931, 0.160335482690017},
		{-0.215127461546006, -0.136637911928220, 0.987104582370184},
	}
	got := BMatrix(sigma)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if diff := math.Abs(got[i][j] - want[i][j]); diff > 1e-9 {
				t.Fatalf("B(%d, %d) = %2.9f diff = %.3e", i, j, got[i][j], diff)
			}
		}
	}
}

func TestStateDotRest(t *testing.T) {
	var x State
	var tau Vec3
	zero := State{}

	assertState(t, StateDot(x, tau, testJ, testJinv), zero, 0)
	assertState(t, StateDotRefFrame(x, tau, Vec3{}, testJ, testJinv), zero, 0)
	assertState(t, StateDotReactionWheels(x, tau, testJ, testJinv, Vec3{}), zero, 0)
}

func TestMRPRateAtIdentity(t *testing.T) {
	omegas := []Vec3{
		{0.01, 0.02, 0.03},
		{-1, 0, 4},
		{1e-9, -1e-9, 2e-9},
		{25, -40, 12},
	}
	for _, w := range omegas {
		assertVec(t, "dσ", MRPRate(Vec3{}, w), w.Scale(0.25), ε)
	}
}

func TestStateDotScenario(t *testing.T) {
	x := State{{0.1, 0.2, 0.3}, {0.01, 0.02, 0.03}}
	got := StateDot(x, Vec3{}, testJ, testJinv)

	want := State{
		{0.00285, 0.0057, 0.00855},
		{-0.0006, 0.0003, -0.0002 / 3.0},
	}
	assertState(t, got, want, ε)
	assertState(t, got, closedForm(x, Vec3{}, [3]float64{1, 2, 3}), ε)
}

func TestStateDotSamplePoints(t *testing.T) {
	j := [3]float64{10, 5, 2}
	J := Diag(j[0], j[1], j[2])
	Jinv := Diag(1/j[0], 1/j[1], 1/j[2])

	tests := []struct {
		name string
		x    State
		tau  Vec3
	}{
		{"near zero", State{{1e-8, -2e-8, 3e-8}, {1e-6, 1e-6, -1e-6}}, Vec3{}},
		{"moderate", State{{0.3, -0.4, 0.5}, {0.1, 0.4, -0.2}}, Vec3{0.01, -0.02, 0.005}},
		{"high rate", State{{-0.2, 0.6, 0.1}, {12, -7, 30}}, Vec3{1, 2, 3}},
		{"near unit sphere", State{{0.57, 0.57, 0.57}, {0.5, 0, -0.5}}, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StateDot(tt.x, tt.tau, J, Jinv)
			want := closedForm(tt.x, tt.tau, j)
			tol := ε * math.Max(1, tt.x[1].Dot(tt.x[1]))
			assertState(t, got, want, tol)
		})
	}
}

func TestStateDotTorqueLinear(t *testing.T) {
	x := State{{0.3, -0.4, 0.5}, {0.1, 0.4, -0.2}}
	t1 := Vec3{0.5, -0.1, 0.2}
	t2 := Vec3{-0.3, 0.7, 0.05}

	d12 := StateDot(x, t1.Add(t2), testJ, testJinv)
	d1 := StateDot(x, t1, testJ, testJinv)
	d2 := StateDot(x, t2, testJ, testJinv)
	d0 := StateDot(x, Vec3{}, testJ, testJinv)

	assertVec(t, "dσ", d12[0], d0[0], 0)
	assertVec(t, "dω", d12[1], d1[1].Add(d2[1]).Sub(d0[1]), ε)
}

func TestStateDotPrincipalAxis(t *testing.T) {
	tau := Vec3{0.3, -0.2, 0.9}
	for axis := 0; axis < 3; axis++ {
		var w Vec3
		w[axis] = 2.5
		x := State{{0.1, 0.1, 0.1}, w}
		got := StateDot(x, tau, testJ, testJinv)
		assertVec(t, "dω", got[1], testJinv.MulVec(tau), ε)
	}
}

func TestStateDotRefFrame(t *testing.T) {
	x := State{{0.2, -0.1, 0.05}, {0.3, 0.1, -0.4}}
	tau := Vec3{0.01, 0.02, -0.03}

	base := StateDot(x, tau, testJ, testJinv)
	assertState(t, StateDotRefFrame(x, tau, Vec3{}, testJ, testJinv), base, 0)

	omegaRef := Vec3{0.1, -0.2, 0.05}
	got := StateDotRefFrame(x, tau, omegaRef, testJ, testJinv)
	assertVec(t, "dσ", got[0], MRPRate(x[0], x[1].Sub(omegaRef)), 0)
	assertVec(t, "dω", got[1], base[1], 0)

	// Tracking a frame that rotates with the body freezes the relative attitude.
	still := StateDotRefFrame(x, tau, x[1], testJ, testJinv)
	assertVec(t, "dσ", still[0], Vec3{}, 0)
}

func TestStateDotReactionWheels(t *testing.T) {
	x := State{{0.2, -0.1, 0.05}, {0.3, 0.1, -0.4}}
	tau := Vec3{0.01, 0.02, -0.03}

	base := StateDot(x, tau, testJ, testJinv)
	assertState(t, StateDotReactionWheels(x, tau, testJ, testJinv, Vec3{}), base, ε)

	hs := Vec3{0.5, -0.25, 1}
	got := StateDotReactionWheels(x, tau, testJ, testJinv, hs)
	gyro := x[1].Cross(testJ.MulVec(x[1])).Add(x[1].Cross(hs))
	assertVec(t, "dσ", got[0], base[0], 0)
	assertVec(t, "dω", got[1], testJinv.MulVec(tau.Sub(gyro)), ε)
}

func TestStateDotDoesNotMutate(t *testing.T) {
	x := State{{0.2, -0.1, 0.05}, {0.3, 0.1, -0.4}}
	orig := x
	J, Jinv := testJ, testJinv
	_ = StateDotReactionWheels(x, Vec3{1, 1, 1}, J, Jinv, Vec3{1, 2, 3})
	if x != orig || J != testJ || Jinv != testJinv {
		t.Fatal("inputs mutated")
	}
}

func TestStateDotAllocations(t *testing.T) {
	x := State{{0.1, 0.2, 0.3}, {0.01, 0.02, 0.03}}
	tau := Vec3{0.1, 0, 0}
	hs := Vec3{0, 0, 0.5}
	allocs := testing.AllocsPerRun(100, func() {
		_ = StateDot(x, tau, testJ, testJinv)
		_ = StateDotRefFrame(x, tau, hs, testJ, testJinv)
		_ = StateDotReactionWheels(x, tau, testJ, testJinv, hs)
	})
	if allocs != 0 {
		t.Errorf("derivatives allocate %v times per call", allocs)
	}
}

func TestMat3Algebra(t *testing.T) {
	a := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 10}}
	b := Mat3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 2}}
	want := Mat3{{-2, 1, 6}, {-5, 4, 12}, {-8, 7, 20}}
	if got := a.Mul(b); got != want {
		t.Fatalf("Mul = %v, want %v", got, want)
	}
	if got := a.Transpose().Transpose(); got != a {
		t.Fatalf("double transpose = %v", got)
	}
	u, v := Vec3{1, 2, 3}, Vec3{-1, 0, 2}
	assertVec(t, "outer·w", u.Outer(v).MulVec(Vec3{1, 1, 1}), u.Scale(v.Dot(Vec3{1, 1, 1})), ε)
}

func BenchmarkStateDot(b *testing.B) {
	x := State{{0.1, 0.2, 0.3}, {0.01, 0.02, 0.03}}
	tau := Vec3{0.1, 0, 0}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		x = StateDot(x, tau, testJ, testJinv)
	}
}
