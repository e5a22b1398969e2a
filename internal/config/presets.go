package config

import "sort"

var (
	smallSat = [9]float64{900, 0, 0, 0, 800, 0, 0, 0, 600}
	// Asymmetric tensor with products of inertia.
	tumbler = [9]float64{10, 1, 0.5, 1, 8, -0.3, 0.5, -0.3, 6}
)

var Presets = map[string]map[string]*Config{
	"rigid": {
		"tumble": {
			Model: "rigid", Integrator: "rk4", Controller: "none", Dt: 0.05, Duration: 300.0,
			ShadowSwitching: true,
			Spacecraft:      SpacecraftConfig{Inertia: tumbler},
			InitState:       InitStateConfig{Sigma: [3]float64{0.3, -0.4, 0.5}, Omega: [3]float64{0.1, 0.4, -0.2}},
		},
		"spin": {
			Model: "rigid", Integrator: "rk4", Controller: "none", Dt: 0.1, Duration: 600.0,
			ShadowSwitching: true,
			Spacecraft:      SpacecraftConfig{Inertia: smallSat},
			InitState:       InitStateConfig{Omega: [3]float64{0, 0.001, 0.1}},
		},
		"detumble": {
			Model: "rigid", Integrator: "rk4", Controller: "mrp", Dt: 0.1, Duration: 600.0,
			ShadowSwitching:  true,
			Spacecraft:       SpacecraftConfig{Inertia: smallSat},
			InitState:        InitStateConfig{Sigma: [3]float64{0.1, 0.2, -0.1}, Omega: [3]float64{0.05, -0.04, 0.03}},
			ControllerParams: ControllerConfig{K: 0, P: DefaultP},
		},
		"slew": {
			Model: "rigid", Integrator: "rk4", Controller: "mrp", Dt: 0.1, Duration: 600.0,
			ShadowSwitching:  true,
			Spacecraft:       SpacecraftConfig{Inertia: smallSat},
			InitState:        InitStateConfig{Sigma: [3]float64{0.1, 0.2, -0.1}, Omega: [3]float64{0.01, -0.01, 0.005}},
			Reference:        ReferenceConfig{Sigma: [3]float64{-0.3, 0.1, 0.2}},
			ControllerParams: ControllerConfig{K: DefaultK, P: DefaultP, MaxTorque: 1},
		},
	},
	"reference": {
		"track": {
			Model: "reference", Integrator: "rk4", Controller: "mrp", Dt: 0.1, Duration: 600.0,
			ShadowSwitching:  true,
			Spacecraft:       SpacecraftConfig{Inertia: smallSat},
			InitState:        InitStateConfig{Sigma: [3]float64{0.1, 0.2, -0.1}, Omega: [3]float64{0.01, -0.01, 0.005}},
			Reference:        ReferenceConfig{Omega: [3]float64{0, 0, 0.0011}},
			ControllerParams: ControllerConfig{K: DefaultK, P: DefaultP},
		},
	},
	"wheels": {
		"gyrostat": {
			Model: "wheels", Integrator: "rk45", Controller: "none", Dt: 0.1, Duration: 600.0,
			ShadowSwitching: true,
			Spacecraft:      SpacecraftConfig{Inertia: smallSat, WheelMomentum: [3]float64{0, 0, 10}},
			InitState:       InitStateConfig{Omega: [3]float64{0.01, 0, 0.001}},
		},
		"detumble": {
			Model: "wheels", Integrator: "rk4", Controller: "mrp", Dt: 0.1, Duration: 600.0,
			ShadowSwitching:  true,
			Spacecraft:       SpacecraftConfig{Inertia: smallSat, WheelMomentum: [3]float64{2, -1, 5}},
			InitState:        InitStateConfig{Sigma: [3]float64{0.1, 0.2, -0.1}, Omega: [3]float64{0.05, -0.04, 0.03}},
			ControllerParams: ControllerConfig{K: DefaultK, P: DefaultP},
		},
	},
}

// GetPreset returns a copy of the named preset, completed with the default
// tolerance and dispersion, or nil when it does not exist.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := *p
	d := DefaultConfig()
	cfg.Tolerance = d.Tolerance
	cfg.Dispersion = d.Dispersion
	return &cfg
}

// ListPresets returns the preset names for model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
