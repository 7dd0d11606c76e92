package kinetics

import (
	"context"
	"fmt"
	"math"
)

// Simulator advances a reaction network through time with a pluggable
// integrator and drive. One Simulator serves one run at a time; it is not
// safe for concurrent use (see Ensemble for parameter-set sweeps).
type Simulator struct {
	sys        System
	integrator Integrator
	drive      Drive
	metrics    []Metric
	observers  []Observer
}

func New(sys System, integrator Integrator, drive Drive) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		drive:      drive,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: state has %d species, system wants %d",
			ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:     make([]State, 0, steps+1),
		Activities: make([]Activity, 0, steps),
		Times:      make([]float64, 0, steps+1),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialTotal := s.moietyTotal(x)

	for i := 0; ; i++ {
		if cfg.Adaptive {
			if t >= cfg.Duration {
				break
			}
			// land the last step exactly on the end of the run
			if t+dt > cfg.Duration {
				dt = cfg.Duration - t
			}
		} else if i >= steps {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		a := s.drive.Activities(t)

		for _, m := range s.metrics {
			m.Observe(x, a, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, a, t)
		}

		var newX State
		var stepErr error
		used := dt

		if cfg.Adaptive {
			newX, used, dt, stepErr = s.adaptiveStep(x, a, t, dt, cfg)
		} else {
			newX = s.integrator.Step(s.sys, x, a, t, dt)
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, stepErr)
		}

		if cfg.ValidateState && !newX.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		x = newX
		t += used
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Activities = append(result.Activities, a)
		result.Times = append(result.Times, t)
	}

	finalTotal := s.moietyTotal(x)
	if initialTotal != 0 {
		result.TotalDrift = math.Abs(finalTotal-initialTotal) / math.Abs(initialTotal)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

func (s *Simulator) moietyTotal(x State) float64 {
	if c, ok := s.sys.(Conserved); ok {
		return c.Total(x)
	}
	return 0
}

// adaptiveStep advances the state by one accepted step. It returns the new
// state, the dt the state was actually advanced by, and the dt proposed for
// the next step, clamped to the configured bounds.
func (s *Simulator) adaptiveStep(x State, a Activity, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		for {
			newX, dtNext, err := adaptive.StepAdaptive(s.sys, x, a, t, dt, cfg.Tolerance)
			if err != nil {
				return newX, dt, dt, err
			}
			// a shrunk recommendation: retry the step at the smaller dt
			if dtNext < dt && dt > cfg.MinDt {
				dt = math.Max(dtNext, cfg.MinDt)
				continue
			}
			return newX, dt, clampDt(dtNext, cfg), nil
		}
	}

	// step doubling for non-adaptive integrators
	x1 := s.integrator.Step(s.sys, x, a, t, dt)
	xHalf := s.integrator.Step(s.sys, x, a, t, dt/2)
	x2 := s.integrator.Step(s.sys, xHalf, a, t+dt/2, dt/2)

	err := x1.Sub(x2).Norm()

	if err > cfg.Tolerance && dt > cfg.MinDt {
		return s.adaptiveStep(x, a, t, dt/2, cfg)
	}

	next := dt
	if err < cfg.Tolerance/10 {
		next = clampDt(dt*2, cfg)
	}

	return x2, dt, next, nil
}

func clampDt(dt float64, cfg Config) float64 {
	if cfg.MaxDt > 0 && dt > cfg.MaxDt {
		dt = cfg.MaxDt
	}
	if cfg.MinDt > 0 && dt < cfg.MinDt {
		dt = cfg.MinDt
	}
	return dt
}

// RunWithCallback steps the system and hands every state to callback; the run
// stops early when callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, Activity, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		a := s.drive.Activities(t)

		if !callback(x, a, t) {
			return nil
		}

		x = s.integrator.Step(s.sys, x, a, t, dt)
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f", t)
		}
	}

	return nil
}
