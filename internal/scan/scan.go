// Package scan sweeps enzyme concentrations and records the steady-state
// phosphorylation pattern at each grid point, producing the dose-response
// surfaces used to compare model variants.
package scan

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Logspace returns n points spaced evenly in log10 between lo and hi
// inclusive. Both bounds must be positive.
func Logspace(lo, hi float64, n int) ([]float64, error) {
	if lo <= 0 || hi <= 0 {
		return nil, fmt.Errorf("scan: bounds must be positive, got [%g, %g]", lo, hi)
	}
	if n < 2 {
		return nil, fmt.Errorf("scan: need at least two points, got %d", n)
	}
	llo, lhi := math.Log10(lo), math.Log10(hi)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Pow(10, llo+(lhi-llo)*float64(i)/float64(n-1))
	}
	return out, nil
}

// Scan runs one steady-state solve per dose level.
type Scan struct {
	// Build constructs the system for a given dose. The dose is the
	// concentration assigned to the swept enzyme pool.
	Build func(dose float64) (kinetics.System, error)

	Integrator func() kinetics.Integrator
	Drive      kinetics.Drive
	Steady     kinetics.SteadyConfig
	Initial    kinetics.State
}

// Point is the converged pattern at one dose level.
type Point struct {
	Dose      float64
	State     kinetics.State
	Fractions []float64
	Time      float64
	Residual  float64
}

// Result is a completed sweep.
type Result struct {
	Doses         []float64
	Points        []Point
	FractionNames []string
}

// Curve extracts the dose-response series for one fraction name.
func (r *Result) Curve(name string) ([]float64, error) {
	idx := -1
	for i, n := range r.FractionNames {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("scan: no fraction %q (have %v)", name, r.FractionNames)
	}
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Fractions[idx]
	}
	return out, nil
}

// Run solves each dose to steady state in order. The drive is held at its
// t=0 activity throughout, matching the steady-state solver.
func (s *Scan) Run(ctx context.Context, doses []float64) (*Result, error) {
	if len(doses) == 0 {
		return nil, fmt.Errorf("scan: no dose levels")
	}

	res := &Result{Doses: append([]float64(nil), doses...)}
	for _, dose := range doses {
		sys, err := s.Build(dose)
		if err != nil {
			return nil, fmt.Errorf("scan: dose %g: %w", dose, err)
		}
		fr, ok := sys.(kinetics.Fractioned)
		if !ok {
			return nil, fmt.Errorf("scan: system does not report phospho fractions")
		}
		if res.FractionNames == nil {
			res.FractionNames = fr.FractionNames()
		}

		sim := kinetics.New(sys, s.Integrator(), s.Drive)
		st, err := sim.RunToSteady(ctx, s.Initial.Clone(), s.Steady)
		if err != nil {
			return nil, fmt.Errorf("scan: dose %g: %w", dose, err)
		}

		res.Points = append(res.Points, Point{
			Dose:      dose,
			State:     st.State,
			Fractions: fr.Fractions(st.State),
			Time:      st.Time,
			Residual:  st.Residual,
		})
	}
	return res, nil
}

// Surface runs a kinase by phosphatase grid. Build receives both doses;
// the returned matrix is indexed [kinase][phosphatase] and holds the named
// fraction at each point.
func (s *Scan) Surface(ctx context.Context, kinase, phosphatase []float64, fraction string, build func(kin, pho float64) (kinetics.System, error)) ([][]float64, error) {
	if len(kinase) == 0 || len(phosphatase) == 0 {
		return nil, fmt.Errorf("scan: empty grid axis")
	}

	out := make([][]float64, len(kinase))
	for i, kin := range kinase {
		out[i] = make([]float64, len(phosphatase))
		for j, pho := range phosphatase {
			sys, err := build(kin, pho)
			if err != nil {
				return nil, fmt.Errorf("scan: grid (%g, %g): %w", kin, pho, err)
			}
			fr, ok := sys.(kinetics.Fractioned)
			if !ok {
				return nil, fmt.Errorf("scan: system does not report phospho fractions")
			}
			idx := -1
			for k, n := range fr.FractionNames() {
				if n == fraction {
					idx = k
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("scan: no fraction %q", fraction)
			}

			sim := kinetics.New(sys, s.Integrator(), s.Drive)
			st, err := sim.RunToSteady(ctx, s.Initial.Clone(), s.Steady)
			if err != nil {
				return nil, fmt.Errorf("scan: grid (%g, %g): %w", kin, pho, err)
			}
			out[i][j] = fr.Fractions(st.State)[idx]
		}
	}
	return out, nil
}

// EnsembleCurve aggregates one dose-response curve across several fitted
// parameter sets, returning the per-dose mean and standard deviation.
func EnsembleCurve(results []*Result, fraction string) (mean, sd []float64, err error) {
	if len(results) == 0 {
		return nil, nil, fmt.Errorf("scan: no sweeps to aggregate")
	}
	n := len(results[0].Points)

	curves := make([][]float64, len(results))
	for i, r := range results {
		if len(r.Points) != n {
			return nil, nil, fmt.Errorf("scan: sweep %d has %d points, want %d", i, len(r.Points), n)
		}
		curves[i], err = r.Curve(fraction)
		if err != nil {
			return nil, nil, err
		}
	}

	mean = make([]float64, n)
	sd = make([]float64, n)
	sample := make([]float64, len(results))
	for j := 0; j < n; j++ {
		for i := range curves {
			sample[i] = curves[i][j]
		}
		if len(sample) == 1 {
			mean[j] = sample[0]
			continue
		}
		mean[j], sd[j] = stat.MeanStdDev(sample, nil)
	}
	return mean, sd, nil
}
