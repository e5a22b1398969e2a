package metrics

import "github.com/san-kum/attsim/internal/dynamo"

// angularMomentum is implemented by the spacecraft models.
type angularMomentum interface {
	Momentum(x dynamo.State) float64
}

// MomentumDrift is the largest relative change of ‖H‖ from its first
// observed value. Torque-free bodies conserve it exactly.
type MomentumDrift struct {
	am angularMomentum
	d  drift
}

func NewMomentumDrift(dyn dynamo.System) *MomentumDrift {
	am, _ := dyn.(angularMomentum)
	return &MomentumDrift{am: am}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if m.am != nil {
		m.d.add(m.am.Momentum(x))
	}
}

func (m *MomentumDrift) Value() float64 { return m.d.max }
func (m *MomentumDrift) Reset()         { m.d = drift{} }
