package dynamo

import (
	"context"
	"fmt"
	"math"
)

// maxPrealloc bounds the trajectory capacity reserved up front.
const maxPrealloc = 1 << 16

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run propagates x0 for cfg.Duration. On a non-finite state the run stops
// early and the partial result carries a *SimulationError.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := maxPrealloc
	if n := math.Ceil(cfg.Duration / cfg.Dt); n < maxPrealloc {
		steps = int(n)
	}
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	// Absorbs float accumulation so Duration/Dt steps are not followed by a sliver.
	end := cfg.Duration - 1e-9*cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialEnergy := s.computeEnergy(x)

	for i := 0; t < end; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		u := s.controller.Compute(x, t)

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		h := math.Min(dt, cfg.Duration-t)

		var newX State
		var stepErr error
		taken := h

		if cfg.Adaptive {
			newX, taken, dt, stepErr = s.adaptiveStep(x, u, t, h, cfg)
		} else {
			newX = s.integrator.Step(s.dyn, x, u, t, h)
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: stepErr})
		}

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrInvalidState})
			break
		}

		if cfg.Normalize {
			if n, ok := s.dyn.(Normalizer); ok {
				normalized := n.Normalize(newX)
				if !equalStates(normalized, newX) {
					result.Switches++
				}
				newX = normalized
			}
		}

		x = newX
		t += taken
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 1) {
		return fmt.Errorf("%w: dt must be positive and finite, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 1) {
		return fmt.Errorf("%w: duration must be positive and finite, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalidConfig)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: state has %d entries, system expects %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	return nil
}

func (s *Simulator) computeEnergy(x State) float64 {
	if ec, ok := s.dyn.(Hamiltonian); ok {
		return ec.Energy(x)
	}
	return 0
}

// adaptiveStep returns the new state, the step actually taken and the
// suggested next step.
func (s *Simulator) adaptiveStep(x State, u Control, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		newX, next, err := adaptive.StepAdaptive(s.dyn, x, u, t, dt, cfg.Tolerance)
		if err != nil {
			return newX, dt, dt, err
		}
		next, err = clampStep(next, cfg)
		return newX, dt, next, err
	}

	x1 := s.integrator.Step(s.dyn, x, u, t, dt)
	xHalf := s.integrator.Step(s.dyn, x, u, t, dt/2)
	x2 := s.integrator.Step(s.dyn, xHalf, u, t+dt/2, dt/2)

	errEst := x1.Distance(x2)

	if errEst > cfg.Tolerance && dt/2 >= cfg.MinDt {
		return s.adaptiveStep(x, u, t, dt/2, cfg)
	}

	next := dt
	if errEst < cfg.Tolerance/10 {
		next = dt * 2
	}
	next, err := clampStep(next, cfg)
	if errEst > cfg.Tolerance {
		err = ErrStepTooSmall
	}
	return x2, dt, next, err
}

func clampStep(dt float64, cfg Config) (float64, error) {
	if cfg.MaxDt > 0 && dt > cfg.MaxDt {
		return cfg.MaxDt, nil
	}
	if dt < cfg.MinDt {
		return cfg.MinDt, ErrStepTooSmall
	}
	return dt, nil
}

func equalStates(a, b State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
