package config

import "sort"

var Presets = map[string]map[string]*Config{
	"mm": {
		"baseline": {
			Model: "mm", Integrator: "rk4", Drive: "constant", Dt: 1.0, Duration: 3600, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 1e-7, PP1: 1e-7},
		},
		"high_kinase": {
			Model: "mm", Integrator: "rk4", Drive: "constant", Dt: 1.0, Duration: 3600, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 1e-6, PP1: 1e-7},
		},
	},
	"activation": {
		"baseline": {
			Model: "activation", Integrator: "rk4", Drive: "constant", Dt: 1.0, Duration: 3600, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 1e-7, PP1: 1e-7},
		},
	},
	"allosteric": {
		"baseline": {
			Model: "allosteric", Integrator: "rk4", Drive: "constant", Dt: 1.0, Duration: 3600, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 1e-7, PP1: 1e-7},
		},
	},
	"structural": {
		"baseline": {
			Model: "structural", Integrator: "rk4", Drive: "constant", Dt: 1.0, Duration: 7200, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 1e-7, PP1: 1e-7},
		},
	},
	"final": {
		"baseline": {
			Model: "final", Integrator: "rk4", Drive: "constant", Dt: 1.0, Duration: 7200, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 1e-7, PP1: 1e-7},
		},
		"beta_pulse": {
			Model: "final", Integrator: "rk4", Drive: "pulses", Dt: 0.5, Duration: 7200, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 2e-7, PP1: 1e-7},
			Pulses:  PulseConfig{Intervals: []float64{600, 1200, 2400, 3000}},
		},
		"washout": {
			Model: "final", Integrator: "rk45", Adaptive: true, Tolerance: 1e-9,
			Drive: "decaying", Dt: 0.5, Duration: 10800, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 2e-7, PP1: 1e-7},
			Pulses:  PulseConfig{Intervals: []float64{600, 3600}, Decay: 0.002},
		},
	},
	"rsk2": {
		"baseline": {
			Model: "rsk2", Integrator: "rk4", Drive: "constant", Dt: 1.0, Duration: 7200, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PKA: 1e-7, PP1: 1e-7, RSK2: 5e-8},
		},
		"rsk2_only": {
			Model: "rsk2", Integrator: "rk4", Drive: "constant", Dt: 1.0, Duration: 7200, Total: DefaultTotal,
			Enzymes: EnzymeConfig{PP1: 1e-7, RSK2: 1e-7},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

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
