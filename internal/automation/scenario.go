// Package automation runs scripted sequences of attitude experiments and
// one-parameter sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/attsim/internal/config"
	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/experiment"
	"github.com/san-kum/attsim/internal/logging"
	"github.com/san-kum/attsim/internal/storage"
)

var ErrUnknownParam = errors.New("no model or controller accepts parameter")

// Scenario is a named sequence of runs loaded from YAML.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Model and Preset select the base configuration; the
// remaining fields override it when set. Params are applied through
// SetParam on the model first and then the controller, e.g. J33, hs3, K, P.
type Step struct {
	Name       string             `yaml:"name"`
	Model      string             `yaml:"model"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Controller string             `yaml:"controller"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	Save       bool               `yaml:"save"`
}

// StepResult pairs a step with its outcome. RunID is set for saved steps.
type StepResult struct {
	Step   Step
	Result *dynamo.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %s has no steps", config.ErrInvalid, path)
	}
	return &scenario, nil
}

// Config resolves the configuration of s.
func (s Step) Config() (*config.Config, error) {
	cfg, err := config.Resolve(s.Model, s.Preset, "")
	if err != nil {
		return nil, err
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Controller != "" {
		cfg.Controller = s.Controller
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	return cfg, nil
}

// Build creates the experiment for s and applies its Params.
func (s Step) Build(registry *experiment.Registry) (*experiment.Experiment, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	exp, err := experiment.New(cfg, registry)
	if err != nil {
		return nil, err
	}
	for name, value := range s.Params {
		if err := setParam(exp, name, value); err != nil {
			return nil, err
		}
	}
	return exp, nil
}

func setParam(exp *experiment.Experiment, name string, value float64) error {
	for _, target := range []any{exp.System(), exp.Controller()} {
		c, ok := target.(dynamo.Configurable)
		if !ok {
			continue
		}
		if _, known := c.GetParams()[name]; known {
			return c.SetParam(name, value)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

// Runner executes scenarios. Store may be nil, in which case nothing is saved.
type Runner struct {
	Registry *experiment.Registry
	Store    *storage.Store
	Log      *logging.Logger
}

func NewRunner(store *storage.Store, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{Registry: experiment.NewRegistry(), Store: store, Log: log}
}

// Run executes the steps in order and stops at the first failure, returning
// the results gathered so far.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		label := step.Name
		if label == "" {
			label = fmt.Sprintf("%s/%s", step.Model, step.Preset)
		}
		stepCtx := logging.WithRunID(ctx, fmt.Sprintf("%s#%d", scenario.Name, i+1))
		r.Log.Info(stepCtx, "scenario step", "step", i+1, "of", len(scenario.Steps), "name", label)

		exp, err := step.Build(r.Registry)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, label, err)
		}

		result, err := exp.Run(stepCtx)
		if err != nil {
			r.Log.Error(stepCtx, "scenario step failed", err)
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, label, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.Save && r.Store != nil {
			cfg := exp.Config()
			sr.RunID, err = r.Store.Save(storage.RunMetadata{
				Model:           cfg.Model,
				Seed:            cfg.Seed,
				Dt:              cfg.Dt,
				Duration:        cfg.Duration,
				Integrator:      cfg.Integrator,
				Controller:      cfg.Controller,
				Adaptive:        cfg.Adaptive,
				ShadowSwitching: cfg.ShadowSwitching,
				Inertia:         cfg.Spacecraft.Inertia,
				WheelMomentum:   cfg.Spacecraft.WheelMomentum,
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d (%s) save: %w", i+1, label, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
