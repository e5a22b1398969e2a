package metrics

import (
	"math"

	"github.com/san-kum/attsim/internal/dynamo"
)

// Energy is the mean rotational kinetic energy over the run. Systems
// without an energy function contribute nothing.
type Energy struct {
	h     dynamo.Hamiltonian
	sum   float64
	count int
}

func NewEnergy(dyn dynamo.System) *Energy {
	h, _ := dyn.(dynamo.Hamiltonian)
	return &Energy{h: h}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if e.h == nil {
		return
	}
	e.sum += e.h.Energy(x)
	e.count++
}

func (e *Energy) Value() float64 {
	if e.count == 0 {
		return 0
	}
	return e.sum / float64(e.count)
}

func (e *Energy) Reset() { *e = Energy{h: e.h} }

// drift tracks the largest relative departure of a conserved quantity
// from its first sample.
type drift struct {
	first float64
	max   float64
	seen  bool
}

func (d *drift) add(v float64) {
	if !d.seen {
		d.first, d.seen = v, true
		return
	}
	if d.first != 0 {
		d.max = math.Max(d.max, math.Abs(v-d.first)/math.Abs(d.first))
	}
}

// EnergyDrift is the largest relative departure from the first observed
// energy. It is only meaningful for torque-free runs.
type EnergyDrift struct {
	h dynamo.Hamiltonian
	d drift
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	h, _ := dyn.(dynamo.Hamiltonian)
	return &EnergyDrift{h: h}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if e.h != nil {
		e.d.add(e.h.Energy(x))
	}
}

func (e *EnergyDrift) Value() float64 { return e.d.max }
func (e *EnergyDrift) Reset()         { e.d = drift{} }
