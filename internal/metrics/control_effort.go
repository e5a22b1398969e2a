package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/attsim/internal/dynamo"
)

// ControlEffort is the mean Euclidean norm of the commanded torque.
type ControlEffort struct {
	sum   float64
	count int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(u) > 0 {
		c.sum += floats.Norm(u, 2)
	}
	c.count++
}

func (c *ControlEffort) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}

func (c *ControlEffort) Reset() { *c = ControlEffort{} }

// PeakTorque is the largest single-axis torque magnitude commanded.
type PeakTorque struct {
	peak float64
}

func NewPeakTorque() *PeakTorque { return &PeakTorque{} }

func (p *PeakTorque) Name() string { return "peak_torque" }

func (p *PeakTorque) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(u) > 0 {
		p.peak = math.Max(p.peak, floats.Norm(u, math.Inf(1)))
	}
}

func (p *PeakTorque) Value() float64 { return p.peak }

func (p *PeakTorque) Reset() { p.peak = 0 }
