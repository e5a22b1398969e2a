package control

import (
	"fmt"
	"math"

	"github.com/san-kum/attsim/internal/attitude"
	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/physics"
)

// MRPFeedback drives the body towards a reference attitude SigmaRef rotating
// at OmegaRef with u = −Kσ_BR − P(ω − ω_r). σ_BR is taken on the short
// rotation, so the law is globally stabilising for K, P > 0.
type MRPFeedback struct {
	K        float64
	P        float64
	SigmaRef attitude.Vec3
	OmegaRef attitude.Vec3
	// MaxTorque saturates each axis; zero disables saturation.
	MaxTorque float64
}

func NewMRPFeedback(k, p float64) *MRPFeedback {
	return &MRPFeedback{K: k, P: p}
}

// Error returns the tracking errors σ_BR and ω − ω_r for x.
func (c *MRPFeedback) Error(x dynamo.State) (attitude.Vec3, attitude.Vec3) {
	s := physics.ToAttitude(x)
	sigmaBR := attitude.Short(attitude.Relative(s.Sigma(), c.SigmaRef))
	return sigmaBR, s.Omega().Sub(c.OmegaRef)
}

func (c *MRPFeedback) Compute(x dynamo.State, t float64) dynamo.Control {
	sigmaBR, deltaOmega := c.Error(x)
	u := sigmaBR.Scale(-c.K).Sub(deltaOmega.Scale(c.P))

	out := make(dynamo.Control, 3)
	for i := range out {
		out[i] = c.saturate(u[i])
	}
	return out
}

func (c *MRPFeedback) saturate(v float64) float64 {
	if c.MaxTorque <= 0 {
		return v
	}
	return math.Max(-c.MaxTorque, math.Min(c.MaxTorque, v))
}

func (c *MRPFeedback) GetParams() map[string]float64 {
	return map[string]float64{
		"K":    c.K,
		"P":    c.P,
		"umax": c.MaxTorque,
	}
}

func (c *MRPFeedback) SetParam(name string, value float64) error {
	if value < 0 || math.IsNaN(value) {
		return fmt.Errorf("%w: %s must be non-negative, got %g", dynamo.ErrInvalidConfig, name, value)
	}
	switch name {
	case "K":
		c.K = value
	case "P":
		c.P = value
	case "umax":
		c.MaxTorque = value
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfig, name)
	}
	return nil
}
