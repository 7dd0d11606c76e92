// Package fit estimates rate parameters from time-course data. The objective
// is the sum of squared residuals between measured phospho fractions and the
// model's simulated fractions, minimized with Nelder-Mead over log-scaled
// parameters, optionally preceded by a coarse grid search.
package fit

import (
	"context"
	"fmt"
	"math"

	"github.com/kochlab/phosphosim/internal/dataset"
	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Objective scores a candidate parameter vector against experimental data.
type Objective struct {
	// Build constructs a fresh system with the named parameters applied.
	Build func(params map[string]float64) (kinetics.System, error)

	Integrator func() kinetics.Integrator
	Drive      kinetics.Drive
	Config     kinetics.Config
	Initial    kinetics.State

	// Data holds one measured time series per fraction name (0P..4P).
	Data *dataset.Table

	// Names lists the free parameters in the order the optimizer's vector
	// uses them.
	Names []string

	// Penalty is returned when a candidate fails to simulate. Defaults to
	// a large finite value so the optimizer backs away rather than dying.
	Penalty float64
}

func (o *Objective) penalty() float64 {
	if o.Penalty > 0 {
		return o.Penalty
	}
	return 1e12
}

// SSR simulates with the given parameter values and returns the sum of
// squared residuals over every fraction column present in the data.
func (o *Objective) SSR(ctx context.Context, params map[string]float64) (float64, error) {
	sys, err := o.Build(params)
	if err != nil {
		return 0, err
	}
	fr, ok := sys.(kinetics.Fractioned)
	if !ok {
		return 0, fmt.Errorf("fit: system does not report phospho fractions")
	}

	sim := kinetics.New(sys, o.Integrator(), o.Drive)
	res, err := sim.Run(ctx, o.Initial.Clone(), o.Config)
	if err != nil {
		return 0, err
	}

	times := res.Times
	names := fr.FractionNames()
	series := make(map[string][]float64, len(names))
	for i, name := range names {
		col := make([]float64, len(res.States))
		for j, x := range res.States {
			col[j] = fr.Fractions(x)[i]
		}
		series[name] = col
	}

	var ssr float64
	matched := 0
	for _, name := range o.Data.Order {
		curve, ok := series[name]
		if !ok {
			continue
		}
		matched++
		pred, err := dataset.Regrid(times, curve, o.Data.X)
		if err != nil {
			return 0, err
		}
		obs := o.Data.Columns[name]
		for i := range obs {
			d := obs[i] - pred[i]
			ssr += d * d
		}
	}
	if matched == 0 {
		return 0, fmt.Errorf("fit: no data column matches a model fraction (data %v, model %v)", o.Data.Order, names)
	}
	return ssr, nil
}

// Eval maps a log10-scaled parameter vector to the SSR, absorbing
// simulation failures into the penalty value. This is the function handed
// to the optimizer.
func (o *Objective) Eval(ctx context.Context, logx []float64) float64 {
	params, err := o.decode(logx)
	if err != nil {
		return o.penalty()
	}
	ssr, err := o.SSR(ctx, params)
	if err != nil || math.IsNaN(ssr) || math.IsInf(ssr, 0) {
		return o.penalty()
	}
	return ssr
}

func (o *Objective) decode(logx []float64) (map[string]float64, error) {
	if len(logx) != len(o.Names) {
		return nil, fmt.Errorf("fit: %d values for %d parameters", len(logx), len(o.Names))
	}
	params := make(map[string]float64, len(logx))
	for i, name := range o.Names {
		params[name] = math.Pow(10, logx[i])
	}
	return params, nil
}

// Encode converts linear-scale starting values into the optimizer's log10
// vector, in the objective's parameter order.
func (o *Objective) Encode(params map[string]float64) ([]float64, error) {
	x := make([]float64, len(o.Names))
	for i, name := range o.Names {
		v, ok := params[name]
		if !ok {
			return nil, fmt.Errorf("fit: missing starting value for %q", name)
		}
		if v <= 0 {
			return nil, fmt.Errorf("fit: parameter %q must be positive, got %v", name, v)
		}
		x[i] = math.Log10(v)
	}
	return x, nil
}
