package fit

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Options tunes the simplex refinement.
type Options struct {
	MaxEvals  int     // objective evaluation budget, 0 means 2000
	Tolerance float64 // convergence threshold on the objective, 0 means 1e-10
}

// FitResult holds the refined parameter estimates.
type FitResult struct {
	Params map[string]float64
	SSR    float64
	Evals  int
	Status string
}

// Minimize refines the starting point with Nelder-Mead in log10 parameter
// space. Positivity is guaranteed by construction since candidates are
// exponentiated before simulation.
func Minimize(ctx context.Context, obj *Objective, start map[string]float64, opts Options) (*FitResult, error) {
	if opts.MaxEvals == 0 {
		opts.MaxEvals = 2000
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = 1e-10
	}

	x0, err := obj.Encode(start)
	if err != nil {
		return nil, err
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 { return obj.Eval(ctx, x) },
	}
	settings := &optimize.Settings{
		FuncEvaluations: opts.MaxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   opts.Tolerance,
			Iterations: 50,
		},
	}

	res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	params := make(map[string]float64, len(obj.Names))
	for i, name := range obj.Names {
		params[name] = math.Pow(10, res.X[i])
	}
	return &FitResult{
		Params: params,
		SSR:    res.F,
		Evals:  res.FuncEvaluations,
		Status: res.Status.String(),
	}, nil
}
