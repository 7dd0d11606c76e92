package fit

import (
	"context"
	"math"
)

// GridSearch exhaustively scores every combination of the given parameter
// values. Useful as a coarse first pass before the simplex refinement, and
// for producing the candidate sets that FilterParamSets prunes.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Candidate is one scored grid point.
type Candidate struct {
	Params map[string]float64
	SSR    float64
}

// Search evaluates the full grid and returns the best point plus every
// successfully scored candidate, cheapest first not guaranteed.
func (g *GridSearch) Search(ctx context.Context, obj *Objective) (map[string]float64, float64, []Candidate, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var all []Candidate

	err := g.searchRecursive(ctx, 0, make(map[string]float64), obj, &best, &bestParams, &all)
	if err != nil {
		return nil, 0, nil, err
	}
	return bestParams, best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	obj *Objective,
	best *float64,
	bestParams *map[string]float64,
	all *[]Candidate,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		ssr, err := obj.SSR(ctx, current)
		if err != nil || math.IsNaN(ssr) || math.IsInf(ssr, 0) {
			return nil
		}

		snapshot := make(map[string]float64, len(current))
		for k, v := range current {
			snapshot[k] = v
		}
		*all = append(*all, Candidate{Params: snapshot, SSR: ssr})

		if ssr < *best {
			*best = ssr
			*bestParams = snapshot
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, obj, best, bestParams, all); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}
