package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/attsim/internal/attitude"
	"github.com/san-kum/attsim/internal/config"
	"github.com/san-kum/attsim/internal/control"
	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/integrators"
	"github.com/san-kum/attsim/internal/metrics"
	"github.com/san-kum/attsim/internal/physics"
)

type (
	ModelFactory      func(cfg *config.Config) (dynamo.System, error)
	IntegratorFactory func() dynamo.Integrator
	ControllerFactory func(cfg *config.Config) dynamo.Controller
)

type Registry struct {
	models      map[string]ModelFactory
	integrators map[string]IntegratorFactory
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelFactory),
		integrators: make(map[string]IntegratorFactory),
		controllers: make(map[string]ControllerFactory),
	}

	r.models["rigid"] = func(cfg *config.Config) (dynamo.System, error) {
		in, err := physics.NewInertia(cfg.Spacecraft.Inertia)
		if err != nil {
			return nil, err
		}
		return physics.NewRigidBody(in), nil
	}
	r.models["reference"] = func(cfg *config.Config) (dynamo.System, error) {
		in, err := physics.NewInertia(cfg.Spacecraft.Inertia)
		if err != nil {
			return nil, err
		}
		return physics.NewReferenceFrame(in, attitude.Vec3(cfg.Reference.Omega)), nil
	}
	r.models["wheels"] = func(cfg *config.Config) (dynamo.System, error) {
		in, err := physics.NewInertia(cfg.Spacecraft.Inertia)
		if err != nil {
			return nil, err
		}
		return physics.NewReactionWheels(in, attitude.Vec3(cfg.Spacecraft.WheelMomentum)), nil
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	r.controllers["none"] = func(cfg *config.Config) dynamo.Controller {
		return control.NewNone(3)
	}
	r.controllers["lqr"] = func(cfg *config.Config) dynamo.Controller {
		return control.NewAttitudeLQR(cfg.ControllerParams.K, cfg.ControllerParams.P)
	}
	r.controllers["mrp"] = func(cfg *config.Config) dynamo.Controller {
		c := control.NewMRPFeedback(cfg.ControllerParams.K, cfg.ControllerParams.P)
		c.SigmaRef = attitude.Vec3(cfg.Reference.Sigma)
		c.OmegaRef = attitude.Vec3(cfg.Reference.Omega)
		c.MaxTorque = cfg.ControllerParams.MaxTorque
		return c
	}

	return r
}

func (r *Registry) GetModel(cfg *config.Config) (dynamo.System, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model: %s", dynamo.ErrInvalidConfig, cfg.Model)
	}
	dyn, err := fn(cfg)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", cfg.Model, err)
	}
	return dyn, nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown integrator: %s", dynamo.ErrInvalidConfig, name)
	}
	return fn(), nil
}

func (r *Registry) GetController(cfg *config.Config) (dynamo.Controller, error) {
	fn, ok := r.controllers[cfg.Controller]
	if !ok {
		return nil, fmt.Errorf("%w: unknown controller: %s", dynamo.ErrInvalidConfig, cfg.Controller)
	}
	return fn(cfg), nil
}

func (r *Registry) ListModels() []string      { return sortedKeys(r.models) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListControllers() []string { return sortedKeys(r.controllers) }

// DefaultMetrics returns fresh metric instances for one run of dyn.
func (r *Registry) DefaultMetrics(cfg *config.Config, dyn dynamo.System) []dynamo.Metric {
	ref := attitude.Vec3(cfg.Reference.Sigma)
	return []dynamo.Metric{
		metrics.NewEnergy(dyn),
		metrics.NewEnergyDrift(dyn),
		metrics.NewMomentumDrift(dyn),
		metrics.NewControlEffort(),
		metrics.NewPeakTorque(),
		metrics.NewPointingError(ref),
		metrics.NewSettlingTime(ref, 1.0),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
