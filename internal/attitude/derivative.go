package attitude

// State holds an attitude snapshot: row 0 is σ, row 1 is ω.
type State [2]Vec3

// Sigma returns the MRP row.
func (s State) Sigma() Vec3 { return s[0] }

// Omega returns the angular velocity row.
func (s State) Omega() Vec3 { return s[1] }

// Skew returns the cross-product operator [v]ₓ, so that Skew(v).MulVec(x) == v.Cross(x).
func Skew(v Vec3) Mat3 {
	return Mat3{
		{0, -v[2], v[1]},
		{v[2], 0, -v[0]},
		{-v[1], v[0], 0},
	}
}

// BMatrix returns (1 − σ·σ)I₃ + 2[σ]ₓ + 2σσᵀ.
func BMatrix(sigma Vec3) Mat3 {
	return Identity3.Scale(1 - sigma.Dot(sigma)).
		Add(Skew(sigma).Scale(2)).
		Add(sigma.Outer(sigma).Scale(2))
}

// MRPRate is the MRP kinematic differential equation dσ/dt = ¼·B(σ)·ω.
func MRPRate(sigma, omega Vec3) Vec3 {
	return BMatrix(sigma).MulVec(omega).Scale(0.25)
}

// EulerRate is Euler's rotational equation dω/dt = J⁻¹(−[ω]ₓJω + τ).
func EulerRate(omega, torque Vec3, inertia, inertiaInv Mat3) Vec3 {
	gyro := Skew(omega).MulVec(inertia.MulVec(omega))
	return inertiaInv.MulVec(torque.Sub(gyro))
}

// StateDot returns the derivative of x under the control torque.
func StateDot(x State, torque Vec3, inertia, inertiaInv Mat3) State {
	return State{
		MRPRate(x[0], x[1]),
		EulerRate(x[1], torque, inertia, inertiaInv),
	}
}

// StateDotRefFrame propagates σ relative to a frame rotating at omegaRef.
// The dynamics row still uses the absolute body rate.
func StateDotRefFrame(x State, torque, omegaRef Vec3, inertia, inertiaInv Mat3) State {
	return State{
		MRPRate(x[0], x[1].Sub(omegaRef)),
		EulerRate(x[1], torque, inertia, inertiaInv),
	}
}

// StateDotReactionWheels adds the gyroscopic coupling −[ω]ₓh_s of the wheel
// momentum hs. inertiaRW is the spacecraft-plus-wheels inertia.
func StateDotReactionWheels(x State, torque Vec3, inertiaRW, inertiaRWInv Mat3, hs Vec3) State {
	omega := x[1]
	cross := Skew(omega)
	h := inertiaRW.MulVec(omega).Add(hs)
	return State{
		MRPRate(x[0], omega),
		inertiaRWInv.MulVec(torque.Sub(cross.MulVec(h))),
	}
}
