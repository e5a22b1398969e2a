package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/attsim/internal/config"
	"github.com/san-kum/attsim/internal/dynamo"
)

// Experiment is one configured simulation: model, integrator, controller
// and metrics built from a config.Config.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	dyn       dynamo.System
	ctrl      dynamo.Controller
	simulator *dynamo.Simulator
}

func New(cfg *config.Config, registry *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Experiment{cfg: cfg, registry: registry}
	dyn, integ, ctrl, err := e.components()
	if err != nil {
		return nil, err
	}

	e.dyn = dyn
	e.ctrl = ctrl
	e.simulator = dynamo.New(dyn, integ, ctrl)
	for _, m := range registry.DefaultMetrics(cfg, dyn) {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) components() (dynamo.System, dynamo.Integrator, dynamo.Controller, error) {
	dyn, err := e.registry.GetModel(e.cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, nil, nil, err
	}
	ctrl, err := e.registry.GetController(e.cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return dyn, integ, ctrl, nil
}

// SimConfig maps the experiment settings onto the simulator configuration.
func (e *Experiment) SimConfig() dynamo.Config {
	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = e.cfg.Dt
	simCfg.Duration = e.cfg.Duration
	simCfg.Seed = e.cfg.Seed
	simCfg.Adaptive = e.cfg.Adaptive
	simCfg.Tolerance = e.cfg.Tolerance
	simCfg.Normalize = e.cfg.ShadowSwitching
	if simCfg.MaxDt < e.cfg.Dt {
		simCfg.MaxDt = e.cfg.Dt
	}
	return simCfg
}

func (e *Experiment) InitState() dynamo.State {
	return dynamo.State(e.cfg.GetInitState())
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.simulator.Run(ctx, e.InitState(), e.SimConfig())
}

// Dispersion runs cfg.Dispersion.Runs perturbed copies of the experiment.
// Every run gets its own model, integrator, controller and metrics.
func (e *Experiment) Dispersion(ctx context.Context) ([]*dynamo.Result, error) {
	runs := e.cfg.Dispersion.Runs
	if runs <= 0 {
		return nil, fmt.Errorf("%w: dispersion needs at least one run", dynamo.ErrInvalidConfig)
	}

	ens := dynamo.NewEnsemble(e.simulator, runs, e.cfg.Seed, dynamo.State(e.cfg.GetSpread()))
	ens.NewSystem = func() dynamo.System {
		dyn, _ := e.registry.GetModel(e.cfg)
		return dyn
	}
	ens.NewIntegrator = func() dynamo.Integrator {
		integ, _ := e.registry.GetIntegrator(e.cfg.Integrator)
		return integ
	}
	ens.NewController = func() dynamo.Controller {
		ctrl, _ := e.registry.GetController(e.cfg)
		return ctrl
	}
	ens.NewMetrics = func(dyn dynamo.System) []dynamo.Metric {
		return e.registry.DefaultMetrics(e.cfg, dyn)
	}

	return ens.Run(ctx, e.InitState(), e.SimConfig())
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) System() dynamo.System         { return e.dyn }
func (e *Experiment) Controller() dynamo.Controller { return e.ctrl }
func (e *Experiment) Simulator() *dynamo.Simulator  { return e.simulator }
