package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is the flat state vector of a [System]. Attitude models pack the
// MRP set first and the body rate second.
type State []float64

func (s State) Clone() State {
	return append(State(nil), s...)
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

// Distance is the Euclidean distance between two states of equal length.
func (s State) Distance(other State) float64 {
	return floats.Distance(s, other, 2)
}

// AddScaled returns s + alpha·other.
func (s State) AddScaled(alpha float64, other State) State {
	out := s.Clone()
	floats.AddScaled(out, alpha, other)
	return out
}

// Control is the external torque, or more generally the input vector, applied
// over one step.
type Control []float64

// System evaluates dx/dt = f(x, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

// Normalizer is implemented by systems whose state has a redundant
// representation that should be brought back to canonical form between steps.
type Normalizer interface {
	Normalize(x State) State
}

// Integrator advances x by one fixed step dt.
type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// AdaptiveIntegrator additionally returns a suggested next step for a given
// local error tolerance.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt, tol float64) (State, float64, error)
}

type Controller interface {
	Compute(x State, t float64) Control
}

// Metric accumulates a scalar figure of merit over a run.
type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

// Configurable exposes named tunable parameters to the CLI, the live view
// and scenario files.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
	Normalize     bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.1,
		Duration:      600.0,
		Tolerance:     1e-9,
		MaxDt:         1.0,
		MinDt:         1e-6,
		Adaptive:      false,
		ValidateState: true,
		Normalize:     true,
	}
}

type Result struct {
	States      []State
	Controls    []Control
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Switches    int
	Errors      []error
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
