package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0
	DefaultDuration = 3600.0
	DefaultTotal    = 20e-6
	DefaultPKA      = 1e-7
	DefaultPP1      = 1e-7
)

type Config struct {
	Model      string  `yaml:"model"`
	Integrator string  `yaml:"integrator"`
	Drive      string  `yaml:"drive"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Adaptive   bool    `yaml:"adaptive"`
	Tolerance  float64 `yaml:"tolerance"`
	Seed       int64   `yaml:"seed"`

	// Total is the conserved protein concentration in molar. All of it
	// starts unphosphorylated.
	Total float64 `yaml:"total"`

	Enzymes EnzymeConfig `yaml:"enzymes"`
	Pulses  PulseConfig  `yaml:"pulses"`

	// Params overrides individual rate constants by name, e.g. kcat1 or
	// km12. Applied after ParamsFile.
	Params map[string]float64 `yaml:"params"`

	// ParamsFile points at a YAML file holding a params map, typically a
	// saved fit result.
	ParamsFile string `yaml:"params_file"`
}

type EnzymeConfig struct {
	PKA  float64 `yaml:"pka"`
	PKC  float64 `yaml:"pkc"`
	PP1  float64 `yaml:"pp1"`
	PP2A float64 `yaml:"pp2a"`
	RSK2 float64 `yaml:"rsk2"`
}

type PulseConfig struct {
	// Intervals are flat [start, end, start, end, ...] times in seconds.
	Intervals []float64 `yaml:"intervals"`
	// Decay is the relaxation rate after the last pulse, used by the
	// decaying drive.
	Decay float64 `yaml:"decay"`
	// Count, Duration, Pause and PKeep shape the seeded random pulse
	// train; zero values fall back to the drive defaults.
	Count    int     `yaml:"count"`
	Duration float64 `yaml:"duration"`
	Pause    float64 `yaml:"pause"`
	PKeep    float64 `yaml:"p_keep"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "final",
		Integrator: "rk4",
		Drive:      "constant",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Total:      DefaultTotal,
		Enzymes: EnzymeConfig{
			PKA: DefaultPKA,
			PP1: DefaultPP1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnzymeLevels returns the pool concentrations in activity-vector order:
// PKA, PKC, PP1, PP2A and, when five pools are requested, RSK2.
func (c *Config) EnzymeLevels(dim int) ([]float64, error) {
	levels := []float64{c.Enzymes.PKA, c.Enzymes.PKC, c.Enzymes.PP1, c.Enzymes.PP2A, c.Enzymes.RSK2}
	if dim < 4 || dim > len(levels) {
		return nil, fmt.Errorf("config: unsupported enzyme count %d", dim)
	}
	return levels[:dim], nil
}

// ParamOverrides merges ParamsFile (if set) with the inline Params map,
// inline values winning.
func (c *Config) ParamOverrides() (map[string]float64, error) {
	merged := make(map[string]float64)

	if c.ParamsFile != "" {
		data, err := os.ReadFile(c.ParamsFile)
		if err != nil {
			return nil, fmt.Errorf("config: params file: %w", err)
		}
		var fromFile map[string]float64
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("config: params file %s: %w", c.ParamsFile, err)
		}
		for k, v := range fromFile {
			merged[k] = v
		}
	}

	for k, v := range c.Params {
		merged[k] = v
	}
	return merged, nil
}

// Validate checks the fields every driver needs before building a run.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %g", c.Duration)
	}
	if c.Total <= 0 {
		return fmt.Errorf("config: total protein must be positive, got %g", c.Total)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("config: adaptive stepping needs a positive tolerance")
	}
	if len(c.Pulses.Intervals)%2 != 0 {
		return fmt.Errorf("config: pulse intervals must come in start,end pairs")
	}
	return nil
}
