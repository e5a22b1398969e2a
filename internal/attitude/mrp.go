package attitude

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// ShadowSet returns the alternate MRP −σ/(σ·σ) describing the same attitude.
// The zero vector has no shadow and is returned unchanged.
func ShadowSet(sigma Vec3) Vec3 {
	sq := sigma.Dot(sigma)
	if sq == 0 {
		return sigma
	}
	return sigma.Scale(-1 / sq)
}

// Short switches sigma to its shadow set when ‖σ‖ > 1.
func Short(sigma Vec3) Vec3 {
	if sigma.Dot(sigma) > 1 {
		return ShadowSet(sigma)
	}
	return sigma
}

// PrincipalAngle returns the principal rotation angle Φ = 4·atan(‖σ‖), in radians.
func PrincipalAngle(sigma Vec3) float64 {
	return 4 * math.Atan(sigma.Norm())
}

// ToQuaternion converts an MRP into a unit quaternion with scalar part in Real.
func ToQuaternion(sigma Vec3) quat.Number {
	sq := sigma.Dot(sigma)
	d := 1 + sq
	return quat.Number{
		Real: (1 - sq) / d,
		Imag: 2 * sigma[0] / d,
		Jmag: 2 * sigma[1] / d,
		Kmag: 2 * sigma[2] / d,
	}
}

// FromQuaternion converts a quaternion into its short MRP set. q need not be
// normalised.
func FromQuaternion(q quat.Number) Vec3 {
	n := quat.Abs(q)
	if n == 0 {
		return Vec3{}
	}
	q = quat.Scale(1/n, q)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	d := 1 + q.Real
	return Vec3{q.Imag / d, q.Jmag / d, q.Kmag / d}
}

// Relative returns the MRP of the body frame relative to a reference frame,
// both given with respect to the same inertial frame.
func Relative(sigmaBN, sigmaRN Vec3) Vec3 {
	b2 := sigmaBN.Dot(sigmaBN)
	r2 := sigmaRN.Dot(sigmaRN)
	den := 1 + r2*b2 + 2*sigmaRN.Dot(sigmaBN)
	num := sigmaBN.Scale(1 - r2).
		Sub(sigmaRN.Scale(1 - b2)).
		Add(sigmaBN.Cross(sigmaRN).Scale(2))
	return num.Scale(1 / den)
}

// DCM returns the direction cosine matrix [BN] mapping inertial components
// into body components:
// [BN] = I₃ + (8[σ]ₓ² − 4(1 − σ·σ)[σ]ₓ) / (1 + σ·σ)².
func DCM(sigma Vec3) Mat3 {
	sq := sigma.Dot(sigma)
	s := Skew(sigma)
	d := (1 + sq) * (1 + sq)
	return Identity3.Add(s.Mul(s).Scale(8 / d)).Add(s.Scale(-4 * (1 - sq) / d))
}
