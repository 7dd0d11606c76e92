package kinetics

import (
	"context"
	"errors"
	"math"
	"testing"
)

// reversibleNetwork interconverts two species with forward rate kf and
// reverse rate kr, settling at x0/x1 = kr/kf.
type reversibleNetwork struct {
	kf, kr float64
}

func (r *reversibleNetwork) Derive(x State, a Activity, t float64) State {
	flux := r.kf*x[0] - r.kr*x[1]
	return State{-flux, flux}
}

func (r *reversibleNetwork) StateDim() int  { return 2 }
func (r *reversibleNetwork) EnzymeDim() int { return 1 }

func (r *reversibleNetwork) Total(x State) float64 { return x[0] + x[1] }

func TestRunToSteadyConverges(t *testing.T) {
	sys := &reversibleNetwork{kf: 1.0, kr: 0.5}
	sim := New(sys, eulerStep{}, constantDrive{1})

	res, err := sim.RunToSteady(context.Background(), State{1, 0}, SteadyConfig{
		Dt:        0.001,
		MaxTime:   100,
		Residual:  1e-9,
		CheckStep: 10,
	})
	if err != nil {
		t.Fatalf("RunToSteady() error: %v", err)
	}
	if !res.Converged {
		t.Fatal("did not converge")
	}

	// equilibrium: x0 = kr/(kf+kr), x1 = kf/(kf+kr) of the total
	if math.Abs(res.State[0]-1.0/3) > 1e-4 {
		t.Errorf("steady x0 = %v, want 1/3", res.State[0])
	}
	if math.Abs(res.State[1]-2.0/3) > 1e-4 {
		t.Errorf("steady x1 = %v, want 2/3", res.State[1])
	}
	if res.Residual > 1e-9 {
		t.Errorf("reported residual %e above threshold", res.Residual)
	}
}

// Integrating from the converged state must not move it.
func TestRunToSteadyIsFixedPoint(t *testing.T) {
	sys := &reversibleNetwork{kf: 1.0, kr: 0.5}
	sim := New(sys, eulerStep{}, constantDrive{1})

	cfg := SteadyConfig{Dt: 0.001, MaxTime: 100, Residual: 1e-10, CheckStep: 10}
	first, err := sim.RunToSteady(context.Background(), State{1, 0}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	run, err := sim.Run(context.Background(), first.State, Config{Dt: 0.001, Duration: 10})
	if err != nil {
		t.Fatal(err)
	}
	moved := run.Final().Sub(first.State).Norm()
	if moved > 1e-6 {
		t.Errorf("steady state moved by %e under further integration", moved)
	}
}

func TestRunToSteadyTimeout(t *testing.T) {
	// pure oscillation never settles
	sim := New(&rotator{}, eulerStep{}, constantDrive{1})

	res, err := sim.RunToSteady(context.Background(), State{1, 0}, SteadyConfig{
		Dt:       0.01,
		MaxTime:  1,
		Residual: 1e-12,
	})
	if !errors.Is(err, ErrNoSteadyState) {
		t.Fatalf("got %v, want ErrNoSteadyState", err)
	}
	if res == nil || res.Converged {
		t.Error("timeout must return the unconverged state")
	}
}

func TestRunToSteadyRejectsBadConfig(t *testing.T) {
	sim := New(&reversibleNetwork{kf: 1, kr: 1}, eulerStep{}, constantDrive{1})

	bad := []SteadyConfig{
		{Dt: 0, MaxTime: 10, Residual: 1e-9},
		{Dt: 0.1, MaxTime: 0, Residual: 1e-9},
		{Dt: 0.1, MaxTime: 10, Residual: 0},
	}
	for _, cfg := range bad {
		if _, err := sim.RunToSteady(context.Background(), State{1, 0}, cfg); !errors.Is(err, ErrParameterBounds) {
			t.Errorf("config %+v: got %v, want ErrParameterBounds", cfg, err)
		}
	}
}

func TestDefaultSteadyConfig(t *testing.T) {
	cfg := DefaultSteadyConfig()
	if cfg.Dt <= 0 || cfg.MaxTime <= 0 || cfg.Residual <= 0 || cfg.CheckStep <= 0 {
		t.Errorf("invalid defaults: %+v", cfg)
	}
}

// rotator is a frictionless oscillator with no fixed point away from zero.
type rotator struct{}

func (rotator) Derive(x State, a Activity, t float64) State { return State{-x[1], x[0]} }
func (rotator) StateDim() int                               { return 2 }
func (rotator) EnzymeDim() int                              { return 1 }
