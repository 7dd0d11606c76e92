package kinetics

import (
	"fmt"
	"math"
)

// State is a vector of species concentrations (mol/L).
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Total returns the summed concentration of all species.
func (s State) Total() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Activity holds per-enzyme activity multipliers, 1.0 meaning the nominal
// enzyme concentration. A drive supplies these over time, e.g. a PKA pulse
// train during beta-adrenergic stimulation.
type Activity []float64

// Ones returns an activity vector of n nominal entries.
func Ones(n int) Activity {
	a := make(Activity, n)
	for i := range a {
		a[i] = 1.0
	}
	return a
}

// System is a reaction network: Derive evaluates the instantaneous rate of
// change of every species from the current concentrations and the enzyme
// activity multipliers. Implementations must be pure with respect to x.
type System interface {
	Derive(x State, a Activity, t float64) State
	StateDim() int
	EnzymeDim() int
}

// Conserved is implemented by networks with a conserved moiety: Total must
// stay constant over any integration within solver tolerance.
type Conserved interface {
	Total(x State) float64
}

// Labeled exposes species names, in state-vector order.
type Labeled interface {
	SpeciesNames() []string
}

// Fractioned exposes the relative abundance of 0P..4P phosphorylation levels.
type Fractioned interface {
	Fractions(x State) []float64
	FractionNames() []string
}

// Configurable allows named parameter access for fitting.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Integrator interface {
	Step(sys System, x State, a Activity, t float64, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, a Activity, t, dt, tol float64) (State, float64, error)
}

// Drive produces the enzyme activity vector at time t.
type Drive interface {
	Activities(t float64) Activity
}

type Metric interface {
	Name() string
	Observe(x State, a Activity, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, a Activity, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0,
		Duration:      3600.0,
		Tolerance:     1e-9,
		MaxDt:         10.0,
		MinDt:         1e-6,
		Adaptive:      false,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Activities []Activity
	Times      []float64
	Metrics    map[string]float64
	// TotalDrift is the relative change of the conserved moiety total
	// between the first and last state, zero for non-conserved systems.
	TotalDrift float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded state.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
