// Package metrics provides per-run observers for simulation quality:
// moiety conservation, negative-concentration excursions, and settling time.
package metrics

import (
	"math"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Conservation tracks the maximum relative drift of the conserved moiety
// total over a run. Any drift beyond solver tolerance signals an
// integration problem, since the networks only redistribute mass.
type Conservation struct {
	name         string
	sys          kinetics.System
	initialTotal float64
	maxDrift     float64
	samples      int
}

func NewConservation(sys kinetics.System) *Conservation {
	return &Conservation{
		name: "conservation_drift",
		sys:  sys,
	}
}

func (c *Conservation) Name() string { return c.name }

func (c *Conservation) Observe(x kinetics.State, a kinetics.Activity, t float64) {
	cons, ok := c.sys.(kinetics.Conserved)
	if !ok {
		return
	}

	total := cons.Total(x)

	if c.samples == 0 {
		c.initialTotal = total
	}
	c.samples++

	if c.initialTotal != 0 {
		drift := math.Abs(total-c.initialTotal) / math.Abs(c.initialTotal)
		c.maxDrift = math.Max(c.maxDrift, drift)
	}
}

func (c *Conservation) Value() float64 {
	return c.maxDrift
}

func (c *Conservation) Reset() {
	c.initialTotal = 0
	c.maxDrift = 0
	c.samples = 0
}
