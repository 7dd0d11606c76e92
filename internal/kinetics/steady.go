package kinetics

import (
	"context"
	"math"
)

// SteadyConfig controls the steady-state search. The residual is the
// derivative norm scaled by the moiety total, so the threshold is
// interpreted as fractional turnover per time unit.
type SteadyConfig struct {
	Dt        float64
	MaxTime   float64
	Residual  float64
	CheckStep int // residual evaluated every CheckStep integration steps
}

func DefaultSteadyConfig() SteadyConfig {
	return SteadyConfig{
		Dt:        1.0,
		MaxTime:   5 * 3600,
		Residual:  1e-9,
		CheckStep: 60,
	}
}

type SteadyResult struct {
	State     State
	Time      float64
	Residual  float64
	Converged bool
}

// RunToSteady integrates the drive-frozen system until the scaled derivative
// norm drops below cfg.Residual, or MaxTime is reached. The drive is sampled
// once at t=0: a steady state only exists for constant activities.
func (s *Simulator) RunToSteady(ctx context.Context, x0 State, cfg SteadyConfig) (*SteadyResult, error) {
	if cfg.Dt <= 0 || cfg.MaxTime <= 0 || cfg.Residual <= 0 {
		return nil, ErrParameterBounds
	}
	if cfg.CheckStep <= 0 {
		cfg.CheckStep = 1
	}

	a := s.drive.Activities(0)
	x := x0.Clone()
	t := 0.0

	scale := s.moietyTotal(x)
	if scale == 0 {
		scale = math.Max(x.Total(), 1)
	}

	res := s.residual(x, a, t, scale)
	steps := 0

	for res > cfg.Residual {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if t >= cfg.MaxTime {
			return &SteadyResult{State: x, Time: t, Residual: res, Converged: false}, ErrNoSteadyState
		}

		x = s.integrator.Step(s.sys, x, a, t, cfg.Dt)
		t += cfg.Dt
		steps++

		if !x.IsValid() {
			return nil, &SimulationError{Step: steps, Time: t, State: x, Wrapped: ErrInvalidState}
		}

		if steps%cfg.CheckStep == 0 {
			res = s.residual(x, a, t, scale)
		}
	}

	return &SteadyResult{State: x, Time: t, Residual: s.residual(x, a, t, scale), Converged: true}, nil
}

func (s *Simulator) residual(x State, a Activity, t, scale float64) float64 {
	return s.sys.Derive(x, a, t).Norm() / scale
}
