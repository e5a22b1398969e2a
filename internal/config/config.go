package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gonum.org/v1/gonum/num/quat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/attsim/internal/attitude"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 600.0
	DefaultK        = 6.0
	DefaultP        = 60.0
)

var ErrInvalid = errors.New("invalid config")

// Models, integrators and controllers accepted by Validate.
var (
	Models      = []string{"rigid", "reference", "wheels"}
	Integrators = []string{"euler", "rk4", "rk45"}
	Controllers = []string{"none", "lqr", "mrp"}
)

type Config struct {
	Model            string           `yaml:"model"`
	Integrator       string           `yaml:"integrator"`
	Controller       string           `yaml:"controller"`
	Dt               float64          `yaml:"dt"`
	Duration         float64          `yaml:"duration"`
	Seed             int64            `yaml:"seed"`
	Adaptive         bool             `yaml:"adaptive"`
	Tolerance        float64          `yaml:"tolerance"`
	ShadowSwitching  bool             `yaml:"shadow_switching"`
	Spacecraft       SpacecraftConfig `yaml:"spacecraft"`
	InitState        InitStateConfig  `yaml:"init_state"`
	Reference        ReferenceConfig  `yaml:"reference"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
	Dispersion       DispersionConfig `yaml:"dispersion"`
}

// SpacecraftConfig holds the row-major body inertia in kg·m² and, for the
// wheels model, the wheel momentum in body axes.
type SpacecraftConfig struct {
	Inertia       [9]float64 `yaml:"inertia"`
	WheelMomentum [3]float64 `yaml:"wheel_momentum"`
}

type InitStateConfig struct {
	Sigma [3]float64 `yaml:"sigma"`
	Omega [3]float64 `yaml:"omega"`
}

// ReferenceConfig is the attitude tracked by the mrp controller. Omega is
// also the frame rate of the reference model.
type ReferenceConfig struct {
	Sigma [3]float64 `yaml:"sigma"`
	Omega [3]float64 `yaml:"omega"`
}

type ControllerConfig struct {
	K         float64 `yaml:"k"`
	P         float64 `yaml:"p"`
	MaxTorque float64 `yaml:"max_torque"`
}

// DispersionConfig drives Monte-Carlo runs: each initial state component is
// perturbed by zero-mean Gaussian noise of the given standard deviation.
type DispersionConfig struct {
	Runs        int     `yaml:"runs"`
	SigmaSpread float64 `yaml:"sigma_spread"`
	OmegaSpread float64 `yaml:"omega_spread"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:           "rigid",
		Integrator:      "rk4",
		Controller:      "none",
		Dt:              DefaultDt,
		Duration:        DefaultDuration,
		Tolerance:       1e-9,
		ShadowSwitching: true,
		Spacecraft: SpacecraftConfig{
			Inertia: [9]float64{900, 0, 0, 0, 800, 0, 0, 0, 600},
		},
		InitState: InitStateConfig{
			Sigma: [3]float64{0.1, 0.2, -0.1},
			Omega: [3]float64{0.01, -0.01, 0.005},
		},
		ControllerParams: ControllerConfig{
			K: DefaultK,
			P: DefaultP,
		},
		Dispersion: DispersionConfig{
			Runs:        16,
			SigmaSpread: 0.01,
			OmegaSpread: 0.001,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadInto(DefaultConfig(), path)
}

// LoadInto reads a YAML file over base, so keys absent from the file keep
// their values in base.
func LoadInto(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve layers a preset (if any) and then a config file (if any) over the
// defaults. Command-line flags are applied by the caller afterwards.
func Resolve(model, preset, file string) (*Config, error) {
	cfg := DefaultConfig()
	if model != "" {
		cfg.Model = model
	}
	if preset != "" {
		p := GetPreset(cfg.Model, preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset %q for %s (available: %v)", ErrInvalid, preset, cfg.Model, ListPresets(cfg.Model))
		}
		cfg = p
	}
	if file != "" {
		var err error
		if cfg, err = LoadInto(cfg, file); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(Models, c.Model) {
		errs = append(errs, fmt.Errorf("%w: unknown model %q", ErrInvalid, c.Model))
	}
	if !slices.Contains(Integrators, c.Integrator) {
		errs = append(errs, fmt.Errorf("%w: unknown integrator %q", ErrInvalid, c.Integrator))
	}
	if !slices.Contains(Controllers, c.Controller) {
		errs = append(errs, fmt.Errorf("%w: unknown controller %q", ErrInvalid, c.Controller))
	}
	if !positiveFinite(c.Dt) {
		errs = append(errs, fmt.Errorf("%w: dt must be positive and finite, got %g", ErrInvalid, c.Dt))
	}
	if !positiveFinite(c.Duration) {
		errs = append(errs, fmt.Errorf("%w: duration must be positive and finite, got %g", ErrInvalid, c.Duration))
	}
	if c.Adaptive && c.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrInvalid))
	}
	if c.ControllerParams.K < 0 || c.ControllerParams.P < 0 || c.ControllerParams.MaxTorque < 0 {
		errs = append(errs, fmt.Errorf("%w: controller gains must be non-negative", ErrInvalid))
	}
	if c.Dispersion.Runs < 0 || c.Dispersion.SigmaSpread < 0 || c.Dispersion.OmegaSpread < 0 {
		errs = append(errs, fmt.Errorf("%w: dispersion settings must be non-negative", ErrInvalid))
	}
	return errors.Join(errs...)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// SetInitQuaternion sets the initial attitude from a scalar-first
// quaternion [q0 q1 q2 q3]. q need not be normalised.
func (c *Config) SetInitQuaternion(q []float64) error {
	if len(q) != 4 {
		return fmt.Errorf("%w: quaternion needs 4 values, got %d", ErrInvalid, len(q))
	}
	n := quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
	if quat.Abs(n) == 0 {
		return fmt.Errorf("%w: zero quaternion", ErrInvalid)
	}
	c.InitState.Sigma = attitude.FromQuaternion(n)
	return nil
}

// GetInitState returns the initial state flattened as [σ, ω].
func (c *Config) GetInitState() []float64 {
	s, w := c.InitState.Sigma, c.InitState.Omega
	return []float64{s[0], s[1], s[2], w[0], w[1], w[2]}
}

// GetSpread returns the per-component dispersion in the same layout.
func (c *Config) GetSpread() []float64 {
	s, w := c.Dispersion.SigmaSpread, c.Dispersion.OmegaSpread
	return []float64{s, s, s, w, w, w}
}
