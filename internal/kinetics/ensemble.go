package kinetics

import (
	"context"
	"sync"
)

// Ensemble runs the same scenario over a family of systems, typically the
// same network under different fitted parameter sets. Every member run is
// deterministic and independent; members execute concurrently and results
// keep member order.
type Ensemble struct {
	systems    []System
	integrator func() Integrator
	drive      Drive
}

func NewEnsemble(systems []System, integrator func() Integrator, drive Drive) *Ensemble {
	return &Ensemble{systems: systems, integrator: integrator, drive: drive}
}

func (e *Ensemble) Run(ctx context.Context, x0 State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.systems))
	errs := make([]error, len(e.systems))

	var wg sync.WaitGroup
	for i := range e.systems {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sim := New(e.systems[idx], e.integrator(), e.drive)
			results[idx], errs[idx] = sim.Run(ctx, x0, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// RunToSteady drives every member to steady state.
func (e *Ensemble) RunToSteady(ctx context.Context, x0 State, cfg SteadyConfig) ([]*SteadyResult, error) {
	results := make([]*SteadyResult, len(e.systems))
	errs := make([]error, len(e.systems))

	var wg sync.WaitGroup
	for i := range e.systems {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sim := New(e.systems[idx], e.integrator(), e.drive)
			results[idx], errs[idx] = sim.RunToSteady(ctx, x0, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
