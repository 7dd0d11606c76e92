package kinetics

import (
	"context"
	"errors"
	"math"
	"testing"
)

// decayNetwork converts species 0 into species 1 at a first-order rate
// scaled by the single enzyme activity. The two-species total is conserved.
type decayNetwork struct {
	k float64
}

func (d *decayNetwork) Derive(x State, a Activity, t float64) State {
	rate := d.k * x[0]
	if len(a) > 0 {
		rate *= a[0]
	}
	return State{-rate, rate}
}

func (d *decayNetwork) StateDim() int  { return 2 }
func (d *decayNetwork) EnzymeDim() int { return 1 }

func (d *decayNetwork) Total(x State) float64 { return x[0] + x[1] }

type eulerStep struct{}

func (eulerStep) Step(sys System, x State, a Activity, t, dt float64) State {
	dx := sys.Derive(x, a, t)
	out := x.Clone()
	for i := range out {
		out[i] += dt * dx[i]
	}
	return out
}

type constantDrive struct{ dim int }

func (c constantDrive) Activities(t float64) Activity { return Ones(c.dim) }

type countMetric struct{ n int }

func (m *countMetric) Name() string { return "observations" }

func (m *countMetric) Observe(x State, a Activity, t float64) { m.n++ }

func (m *countMetric) Value() float64 { return float64(m.n) }

func (m *countMetric) Reset() { m.n = 0 }

func TestRunExponentialApproach(t *testing.T) {
	sys := &decayNetwork{k: 0.5}
	sim := New(sys, eulerStep{}, constantDrive{1})

	res, err := sim.Run(context.Background(), State{1, 0}, Config{Dt: 0.001, Duration: 4})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	final := res.Final()
	want := math.Exp(-0.5 * 4)
	if math.Abs(final[0]-want) > 1e-2 {
		t.Errorf("final x0 = %v, want ~%v", final[0], want)
	}
	if res.StepsTaken != 4000 {
		t.Errorf("StepsTaken = %d, want 4000", res.StepsTaken)
	}
	if len(res.States) != res.StepsTaken+1 {
		t.Errorf("recorded %d states for %d steps", len(res.States), res.StepsTaken)
	}
}

func TestRunConservesTotal(t *testing.T) {
	sys := &decayNetwork{k: 0.5}
	sim := New(sys, eulerStep{}, constantDrive{1})

	res, err := sim.Run(context.Background(), State{1, 0}, Config{Dt: 0.001, Duration: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalDrift > 1e-12 {
		t.Errorf("TotalDrift = %e for an exactly conserving scheme", res.TotalDrift)
	}
}

func TestRunDimensionMismatch(t *testing.T) {
	sim := New(&decayNetwork{k: 1}, eulerStep{}, constantDrive{1})

	_, err := sim.Run(context.Background(), State{1, 0, 0}, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	sim := New(&decayNetwork{k: 1}, eulerStep{}, constantDrive{1})

	tests := []Config{
		{Dt: 0, Duration: 1},
		{Dt: 0.1, Duration: 0},
		{Dt: 0.1, Duration: 1, Adaptive: true, Tolerance: 0},
	}
	for _, cfg := range tests {
		if _, err := sim.Run(context.Background(), State{1, 0}, cfg); err == nil {
			t.Errorf("config %+v should be rejected", cfg)
		}
	}
}

func TestRunCancellation(t *testing.T) {
	sim := New(&decayNetwork{k: 1}, eulerStep{}, constantDrive{1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, State{1, 0}, Config{Dt: 0.001, Duration: 100})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRunStopsOnInvalidState(t *testing.T) {
	// large dt with a stiff rate makes forward Euler blow up
	sim := New(&decayNetwork{k: 1e12}, eulerStep{}, constantDrive{1})

	res, err := sim.Run(context.Background(), State{1, 0}, Config{Dt: 1, Duration: 100, ValidateState: true})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Errors) == 0 {
		t.Error("divergent run recorded no errors")
	}
	if res.StepsTaken >= 100 {
		t.Errorf("run did not stop early: %d steps", res.StepsTaken)
	}
}

func TestRunMetrics(t *testing.T) {
	sim := New(&decayNetwork{k: 0.5}, eulerStep{}, constantDrive{1})
	m := &countMetric{n: 7} // stale count must be reset
	sim.AddMetric(m)

	res, err := sim.Run(context.Background(), State{1, 0}, Config{Dt: 0.1, Duration: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Metrics["observations"]; got != 10 {
		t.Errorf("metric observed %v steps, want 10", got)
	}
}

func TestRunAdaptiveStepDoubling(t *testing.T) {
	sim := New(&decayNetwork{k: 0.5}, eulerStep{}, constantDrive{1})

	cfg := Config{Dt: 0.5, Duration: 4, Adaptive: true, Tolerance: 1e-8, MaxDt: 0.5, MinDt: 1e-6}
	res, err := sim.Run(context.Background(), State{1, 0}, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	final := res.Final()
	exact := math.Exp(-0.5 * res.Times[len(res.Times)-1])
	if math.Abs(final[0]-exact) > 1e-3 {
		t.Errorf("adaptive final x0 = %v, want ~%v", final[0], exact)
	}
}

// clock integrates dx/dt = 1, so the state reads out elapsed time directly.
type clock struct{}

func (clock) Derive(x State, a Activity, t float64) State { return State{1} }

func (clock) StateDim() int { return 1 }

func (clock) EnzymeDim() int { return 1 }

// greedyStep accepts every step and asks for double the dt next time.
type greedyStep struct{}

func (greedyStep) Step(sys System, x State, a Activity, t, dt float64) State {
	return eulerStep{}.Step(sys, x, a, t, dt)
}

func (greedyStep) StepAdaptive(sys System, x State, a Activity, t, dt, tol float64) (State, float64, error) {
	return eulerStep{}.Step(sys, x, a, t, dt), 2 * dt, nil
}

func TestRunAdaptiveTimeAxis(t *testing.T) {
	sim := New(clock{}, greedyStep{}, constantDrive{1})

	cfg := Config{Dt: 1, Duration: 100, Adaptive: true, Tolerance: 1e-6, MaxDt: 8, MinDt: 1e-6}
	res, err := sim.Run(context.Background(), State{0}, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	last := res.Times[len(res.Times)-1]
	if math.Abs(res.Final()[0]-last) > 1e-9 {
		t.Errorf("reported time %v disagrees with integrated time %v", last, res.Final()[0])
	}
	if math.Abs(last-cfg.Duration) > 1e-9 {
		t.Errorf("run ended at t=%v, want %v", last, cfg.Duration)
	}
	for i := 1; i < len(res.Times); i++ {
		if step := res.Times[i] - res.Times[i-1]; step > cfg.MaxDt+1e-12 {
			t.Errorf("step %d advanced %v, above the MaxDt cap %v", i, step, cfg.MaxDt)
		}
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(&decayNetwork{k: 0.5}, eulerStep{}, constantDrive{1})

	calls := 0
	err := sim.RunWithCallback(context.Background(), State{1, 0}, Config{Dt: 0.1, Duration: 10},
		func(x State, a Activity, tm float64) bool {
			calls++
			return calls < 5
		})
	if err != nil {
		t.Fatalf("RunWithCallback() error: %v", err)
	}
	if calls != 5 {
		t.Errorf("callback ran %d times, want 5 (early stop)", calls)
	}
}

func TestEnsembleRun(t *testing.T) {
	systems := []System{
		&decayNetwork{k: 0.1},
		&decayNetwork{k: 0.5},
		&decayNetwork{k: 1.0},
	}
	e := NewEnsemble(systems, func() Integrator { return eulerStep{} }, constantDrive{1})

	results, err := e.Run(context.Background(), State{1, 0}, Config{Dt: 0.001, Duration: 2})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// faster decay leaves less of species 0, so member order matters
	for i := 1; i < 3; i++ {
		if results[i].Final()[0] >= results[i-1].Final()[0] {
			t.Errorf("member %d did not decay faster than member %d", i, i-1)
		}
	}
}
