package metrics

import (
	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Negativity reports the fraction of observed states with any species below
// -tolerance. Small negative excursions are a solver artifact, not a model
// error; a non-negligible fraction means the step size is too large.
type Negativity struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewNegativity(tolerance float64) *Negativity {
	return &Negativity{
		name:      "negativity",
		tolerance: tolerance,
	}
}

func (n *Negativity) Name() string {
	return n.name
}

func (n *Negativity) Observe(x kinetics.State, a kinetics.Activity, t float64) {
	n.samples++
	for _, val := range x {
		if val < -n.tolerance {
			n.violations++
			break
		}
	}
}

func (n *Negativity) Value() float64 {
	if n.samples == 0 {
		return 0
	}
	return float64(n.violations) / float64(n.samples)
}

func (n *Negativity) Reset() {
	n.violations = 0
	n.samples = 0
}
