package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "rigid" {
		t.Errorf("expected model rigid, got %s", cfg.Model)
	}
	if !cfg.ShadowSwitching {
		t.Error("shadow switching should default to on")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("rigid", "tumble")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.Sigma[0] != 0.3 {
		t.Errorf("expected σ1 0.3, got %f", cfg.InitState.Sigma[0])
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}

	// Presets are copies.
	cfg.Dt = 99
	if GetPreset("rigid", "tumble").Dt == 99 {
		t.Error("GetPreset returned shared state")
	}
}

func TestAllPresetsValid(t *testing.T) {
	for model := range Presets {
		for _, name := range ListPresets(model) {
			if err := GetPreset(model, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", model, name, err)
			}
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("rigid", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "tumble"); cfg != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("rigid")
	want := []string{"detumble", "slew", "spin", "tumble"}
	if len(presets) != len(want) {
		t.Fatalf("got %v, want %v", presets, want)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("presets[%d] = %s, want %s", i, presets[i], want[i])
		}
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"model", func(c *Config) { c.Model = "pendulum" }},
		{"integrator", func(c *Config) { c.Integrator = "verlet" }},
		{"controller", func(c *Config) { c.Controller = "pid" }},
		{"dt", func(c *Config) { c.Dt = 0 }},
		{"duration", func(c *Config) { c.Duration = -1 }},
		{"infinite duration", func(c *Config) { c.Duration = math.Inf(1) }},
		{"NaN duration", func(c *Config) { c.Duration = math.NaN() }},
		{"infinite dt", func(c *Config) { c.Dt = math.Inf(1) }},
		{"NaN dt", func(c *Config) { c.Dt = math.NaN() }},
		{"tolerance", func(c *Config) { c.Adaptive = true; c.Tolerance = 0 }},
		{"gains", func(c *Config) { c.ControllerParams.P = -1 }},
		{"dispersion", func(c *Config) { c.Dispersion.Runs = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := GetPreset("wheels", "gyrostat")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestResolveLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("dt: 0.02\ninit_state:\n  omega: [0.2, 0, 0]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve("rigid", "tumble", path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != 0.02 {
		t.Errorf("dt = %f, file should override preset", cfg.Dt)
	}
	if cfg.Duration != 300 {
		t.Errorf("duration = %f, preset value should survive", cfg.Duration)
	}
	if cfg.InitState.Omega != [3]float64{0.2, 0, 0} {
		t.Errorf("ω = %v", cfg.InitState.Omega)
	}

	if _, err := Resolve("rigid", "bogus", ""); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown preset: err = %v", err)
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	state := cfg.GetInitState()
	want := []float64{0.1, 0.2, -0.1, 0.01, -0.01, 0.005}
	if len(state) != 6 {
		t.Fatalf("expected 6 states, got %d", len(state))
	}
	for i := range want {
		if state[i] != want[i] {
			t.Errorf("state[%d] = %f, want %f", i, state[i], want[i])
		}
	}
}

func TestSetInitQuaternion(t *testing.T) {
	cfg := DefaultConfig()
	// 90° about the third axis, given unnormalised and with the long sign.
	h := math.Sqrt(0.5)
	if err := cfg.SetInitQuaternion([]float64{-2 * h, 0, 0, -2 * h}); err != nil {
		t.Fatal(err)
	}
	want := [3]float64{0, 0, math.Tan(math.Pi / 8)}
	for i := range want {
		if math.Abs(cfg.InitState.Sigma[i]-want[i]) > 1e-12 {
			t.Fatalf("sigma = %v, want %v", cfg.InitState.Sigma, want)
		}
	}

	for _, q := range [][]float64{{1, 0, 0}, {0, 0, 0, 0}} {
		if err := cfg.SetInitQuaternion(q); !errors.Is(err, ErrInvalid) {
			t.Errorf("SetInitQuaternion(%v) = %v, want ErrInvalid", q, err)
		}
	}
}
