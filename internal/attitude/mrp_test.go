package attitude

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"
)

var (
	shortMRP = Vec3{-0.074243348654559, 0.103306024060508, 0.057347988603058}
	longMRP  = Vec3{3.81263, -5.30509, -2.945}
)

func TestShadowSet(t *testing.T) {
	assertVec(t, "shadow", Short(longMRP), shortMRP, 1e-6)
	assertVec(t, "short", Short(shortMRP), shortMRP, 0)
	assertVec(t, "zero", ShadowSet(Vec3{}), Vec3{}, 0)

	// Shadow of the shadow is the original set.
	s := Vec3{0.3, -0.4, 0.5}
	assertVec(t, "double", ShadowSet(ShadowSet(s)), s, ε)
}

func TestPrincipalAngle(t *testing.T) {
	tests := []struct {
		sigma Vec3
		want  float64
	}{
		{Vec3{}, 0},
		{Vec3{math.Tan(math.Pi / 8), 0, 0}, math.Pi / 2},
		{Vec3{0, 0, 1}, math.Pi},
	}
	for _, tt := range tests {
		if got := PrincipalAngle(tt.sigma); math.Abs(got-tt.want) > ε {
			t.Errorf("PrincipalAngle(%v) = %v, want %v", tt.sigma, got, tt.want)
		}
	}
}

func TestQuaternionRoundTrip(t *testing.T) {
	for _, s := range []Vec3{{}, shortMRP, {0.3, -0.4, 0.5}, {0, 0, 0.99}} {
		q := ToQuaternion(s)
		if n := quat.Abs(q); math.Abs(n-1) > ε {
			t.Fatalf("|q| = %v for σ=%v", n, s)
		}
		assertVec(t, "σ", FromQuaternion(q), s, 1e-12)
	}

	// A negated quaternion is the same attitude and maps to the short set.
	q := ToQuaternion(shortMRP)
	assertVec(t, "σ", FromQuaternion(quat.Scale(-3, q)), shortMRP, 1e-12)
}

func TestFromQuaternionAxisAngle(t *testing.T) {
	phi := 1.2
	q := quat.Number{Real: math.Cos(phi / 2), Kmag: math.Sin(phi / 2)}
	assertVec(t, "σ", FromQuaternion(q), Vec3{0, 0, math.Tan(phi / 4)}, ε)
}

func TestRelative(t *testing.T) {
	s := Vec3{0.3, -0.4, 0.5}
	assertVec(t, "self", Relative(s, s), Vec3{}, ε)
	assertVec(t, "inertial", Relative(s, Vec3{}), s, ε)

	// Coaxial rotations compose by angle difference.
	a, b := 1.1, 0.4
	got := Relative(Vec3{math.Tan(a / 4), 0, 0}, Vec3{math.Tan(b / 4), 0, 0})
	assertVec(t, "coaxial", got, Vec3{math.Tan((a - b) / 4), 0, 0}, ε)
}

func TestDCM(t *testing.T) {
	// 90° about the third axis maps inertial x onto body −y.
	c := DCM(Vec3{0, 0, math.Tan(math.Pi / 8)})
	assertVec(t, "[BN]n1", c.MulVec(Vec3{1, 0, 0}), Vec3{0, -1, 0}, ε)

	// Orthonormal for an arbitrary set, and shadow sets agree.
	s := Vec3{0.3, -0.4, 0.5}
	c = DCM(s)
	ctc := c.Transpose().Mul(c)
	for i := 0; i < 3; i++ {
		assertVec(t, "CᵀC", ctc[i], Identity3[i], 1e-12)
		assertVec(t, "shadow", DCM(ShadowSet(s))[i], c[i], 1e-12)
	}
}
