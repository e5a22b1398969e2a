package attitude

import "gonum.org/v1/gonum/spatial/r3"

// Vec3 is a body-frame 3-vector. Arithmetic goes through gonum's r3 package
// by value, so none of it allocates.
type Vec3 [3]float64

// Mat3 is a row-major 3x3 matrix held by value. r3.Mat is heap-backed, which
// the derivative evaluators cannot afford.
type Mat3 [3][3]float64

// Identity3 is the 3x3 identity matrix.
var Identity3 = Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Diag returns diag(a, b, c).
func Diag(a, b, c float64) Mat3 {
	return Mat3{{a, 0, 0}, {0, b, 0}, {0, 0, c}}
}

func (v Vec3) vec() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func fromR3(p r3.Vec) Vec3 { return Vec3{p.X, p.Y, p.Z} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return fromR3(r3.Add(v.vec(), o.vec())) }

// Sub returns v − o.
func (v Vec3) Sub(o Vec3) Vec3 { return fromR3(r3.Sub(v.vec(), o.vec())) }

// Scale returns f·v.
func (v Vec3) Scale(f float64) Vec3 { return fromR3(r3.Scale(f, v.vec())) }

// Dot returns v·o.
func (v Vec3) Dot(o Vec3) float64 { return r3.Dot(v.vec(), o.vec()) }

// Cross returns v × o.
func (v Vec3) Cross(o Vec3) Vec3 { return fromR3(r3.Cross(v.vec(), o.vec())) }

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return r3.Norm(v.vec()) }

// Outer returns v·oᵀ.
func (v Vec3) Outer(o Vec3) Mat3 {
	return Mat3{o.Scale(v[0]), o.Scale(v[1]), o.Scale(v[2])}
}

// Add returns m + o.
func (m Mat3) Add(o Mat3) Mat3 {
	return Mat3{
		Vec3(m[0]).Add(o[0]),
		Vec3(m[1]).Add(o[1]),
		Vec3(m[2]).Add(o[2]),
	}
}

// Scale returns f·m.
func (m Mat3) Scale(f float64) Mat3 {
	return Mat3{Vec3(m[0]).Scale(f), Vec3(m[1]).Scale(f), Vec3(m[2]).Scale(f)}
}

// Mul returns the matrix product m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	t := o.Transpose()
	var r Mat3
	for i := 0; i < 3; i++ {
		r[i] = t.MulVec(m[i])
	}
	return r
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{Vec3(m[0]).Dot(v), Vec3(m[1]).Dot(v), Vec3(m[2]).Dot(v)}
}

// Transpose returns mᵀ.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}
