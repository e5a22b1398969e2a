package physics

import (
	"fmt"

	"github.com/san-kum/attsim/internal/attitude"
	"github.com/san-kum/attsim/internal/dynamo"
)

const (
	stateDim   = 6
	controlDim = 3
)

// ToAttitude unpacks a flat [σ, ω] state.
func ToAttitude(x dynamo.State) attitude.State {
	return attitude.State{
		{x[0], x[1], x[2]},
		{x[3], x[4], x[5]},
	}
}

// FromAttitude packs an attitude state as [σ, ω].
func FromAttitude(s attitude.State) dynamo.State {
	return dynamo.State{s[0][0], s[0][1], s[0][2], s[1][0], s[1][1], s[1][2]}
}

// Torque reads a body torque from u, treating missing entries as zero.
func Torque(u dynamo.Control) attitude.Vec3 {
	var tau attitude.Vec3
	copy(tau[:], u)
	return tau
}

// body carries what every spacecraft model shares.
type body struct {
	Inertia Inertia
}

func (b *body) StateDim() int   { return stateDim }
func (b *body) ControlDim() int { return controlDim }

// InertiaMatrix returns the current inertia tensor.
func (b *body) InertiaMatrix() attitude.Mat3 { return b.Inertia.J }

// Energy is the rotational kinetic energy ½ωᵀJω.
func (b *body) Energy(x dynamo.State) float64 {
	w := ToAttitude(x).Omega()
	return 0.5 * w.Dot(b.Inertia.J.MulVec(w))
}

// Normalize keeps σ on the short MRP set.
func (b *body) Normalize(x dynamo.State) dynamo.State {
	s := ToAttitude(x)
	short := attitude.Short(s[0])
	if short == s[0] {
		return x
	}
	s[0] = short
	return FromAttitude(s)
}

func (b *body) inertiaParams(p map[string]float64) {
	p["J11"] = b.Inertia.J[0][0]
	p["J22"] = b.Inertia.J[1][1]
	p["J33"] = b.Inertia.J[2][2]
}

func (b *body) setInertiaParam(name string, value float64) (bool, error) {
	idx := map[string]int{"J11": 0, "J22": 4, "J33": 8}
	i, ok := idx[name]
	if !ok {
		return false, nil
	}
	values := b.Inertia.Values()
	values[i] = value
	in, err := NewInertia(values)
	if err != nil {
		return true, fmt.Errorf("set %s=%g: %w", name, value, err)
	}
	b.Inertia = in
	return true, nil
}

func setVec(v *attitude.Vec3, prefix, name string, value float64) bool {
	for i := 0; i < 3; i++ {
		if name == fmt.Sprintf("%s%d", prefix, i+1) {
			v[i] = value
			return true
		}
	}
	return false
}

// RigidBody is a rigid spacecraft driven by an external body torque.
type RigidBody struct {
	body
}

func NewRigidBody(in Inertia) *RigidBody {
	return &RigidBody{body{Inertia: in}}
}

// Derive evaluates the MRP kinematics and Euler's equation.
func (r *RigidBody) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	dx := attitude.StateDot(ToAttitude(x), Torque(u), r.Inertia.J, r.Inertia.Inv)
	return FromAttitude(dx)
}

// Momentum is the magnitude of the body angular momentum Jω.
func (r *RigidBody) Momentum(x dynamo.State) float64 {
	return r.Inertia.J.MulVec(ToAttitude(x).Omega()).Norm()
}

func (r *RigidBody) GetParams() map[string]float64 {
	p := make(map[string]float64)
	r.inertiaParams(p)
	return p
}

func (r *RigidBody) SetParam(name string, value float64) error {
	if ok, err := r.setInertiaParam(name, value); ok {
		return err
	}
	return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfig, name)
}

// ReferenceFrame propagates attitude relative to a frame rotating at OmegaRef.
type ReferenceFrame struct {
	body
	OmegaRef attitude.Vec3
}

func NewReferenceFrame(in Inertia, omegaRef attitude.Vec3) *ReferenceFrame {
	return &ReferenceFrame{body: body{Inertia: in}, OmegaRef: omegaRef}
}

func (r *ReferenceFrame) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	dx := attitude.StateDotRefFrame(ToAttitude(x), Torque(u), r.OmegaRef, r.Inertia.J, r.Inertia.Inv)
	return FromAttitude(dx)
}

func (r *ReferenceFrame) Momentum(x dynamo.State) float64 {
	return r.Inertia.J.MulVec(ToAttitude(x).Omega()).Norm()
}

func (r *ReferenceFrame) GetParams() map[string]float64 {
	p := make(map[string]float64)
	r.inertiaParams(p)
	for i, v := range r.OmegaRef {
		p[fmt.Sprintf("wr%d", i+1)] = v
	}
	return p
}

func (r *ReferenceFrame) SetParam(name string, value float64) error {
	if ok, err := r.setInertiaParam(name, value); ok {
		return err
	}
	if setVec(&r.OmegaRef, "wr", name, value) {
		return nil
	}
	return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfig, name)
}

// ReactionWheels couples the body to wheels storing momentum Hs. Inertia is
// the spacecraft-plus-wheels tensor. Wheel spin dynamics are not modelled.
type ReactionWheels struct {
	body
	Hs attitude.Vec3
}

func NewReactionWheels(in Inertia, hs attitude.Vec3) *ReactionWheels {
	return &ReactionWheels{body: body{Inertia: in}, Hs: hs}
}

func (r *ReactionWheels) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	dx := attitude.StateDotReactionWheels(ToAttitude(x), Torque(u), r.Inertia.J, r.Inertia.Inv, r.Hs)
	return FromAttitude(dx)
}

// Momentum is the magnitude of the system angular momentum Jω + h_s.
func (r *ReactionWheels) Momentum(x dynamo.State) float64 {
	return r.Inertia.J.MulVec(ToAttitude(x).Omega()).Add(r.Hs).Norm()
}

func (r *ReactionWheels) GetParams() map[string]float64 {
	p := make(map[string]float64)
	r.inertiaParams(p)
	for i, v := range r.Hs {
		p[fmt.Sprintf("hs%d", i+1)] = v
	}
	return p
}

func (r *ReactionWheels) SetParam(name string, value float64) error {
	if ok, err := r.setInertiaParam(name, value); ok {
		return err
	}
	if setVec(&r.Hs, "hs", name, value) {
		return nil
	}
	return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfig, name)
}
