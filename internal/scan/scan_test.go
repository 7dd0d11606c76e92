package scan

import (
	"context"
	"math"
	"testing"

	"github.com/kochlab/phosphosim/internal/drives"
	"github.com/kochlab/phosphosim/internal/integrators"
	"github.com/kochlab/phosphosim/internal/kinetics"
	"github.com/kochlab/phosphosim/internal/models"
)

const total = 20e-6

func TestLogspace(t *testing.T) {
	got, err := Logspace(1e-9, 1e-6, 4)
	if err != nil {
		t.Fatalf("Logspace() error: %v", err)
	}
	want := []float64{1e-9, 1e-8, 1e-7, 1e-6}
	for i := range want {
		if math.Abs(got[i]-want[i])/want[i] > 1e-12 {
			t.Errorf("point %d = %g, want %g", i, got[i], want[i])
		}
	}

	if _, err := Logspace(0, 1, 3); err == nil {
		t.Error("zero bound should fail")
	}
	if _, err := Logspace(1e-9, 1e-6, 1); err == nil {
		t.Error("single point should fail")
	}
}

func newScan(doseEnzyme string) *Scan {
	return &Scan{
		Build: func(dose float64) (kinetics.System, error) {
			sys, err := models.New("mm")
			if err != nil {
				return nil, err
			}
			if err := sys.(kinetics.Configurable).SetParam(doseEnzyme, dose); err != nil {
				return nil, err
			}
			return sys, nil
		},
		Integrator: func() kinetics.Integrator { return integrators.NewRK4() },
		Drive:      drives.NewConstant(4),
		Steady: kinetics.SteadyConfig{
			Dt:       1.0,
			MaxTime:  4 * 3600,
			Residual: 1e-7,
		},
		Initial: models.InitialState(8, total),
	}
}

func TestRunMonotonePKAResponse(t *testing.T) {
	s := newScan("pka")
	doses, err := Logspace(1e-9, 1e-6, 5)
	if err != nil {
		t.Fatal(err)
	}

	res, err := s.Run(context.Background(), doses)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Points) != 5 {
		t.Fatalf("got %d points, want 5", len(res.Points))
	}

	// More kinase leaves less unphosphorylated protein at steady state.
	zeroP, err := res.Curve("0P")
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(zeroP); i++ {
		if zeroP[i] > zeroP[i-1]+1e-9 {
			t.Errorf("0P rose with kinase dose: %v", zeroP)
			break
		}
	}

	for _, p := range res.Points {
		var sum float64
		for _, f := range p.Fractions {
			sum += f
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("fractions at dose %g sum to %v", p.Dose, sum)
		}
	}
}

func TestRunEmptyDoses(t *testing.T) {
	if _, err := newScan("pka").Run(context.Background(), nil); err == nil {
		t.Error("empty dose list should fail")
	}
}

func TestCurveUnknownFraction(t *testing.T) {
	res := &Result{FractionNames: []string{"0P"}}
	if _, err := res.Curve("9P"); err == nil {
		t.Error("unknown fraction should fail")
	}
}

func TestSurface(t *testing.T) {
	s := newScan("pka")
	kin := []float64{1e-8, 1e-7}
	pho := []float64{1e-8, 1e-7}

	grid, err := s.Surface(context.Background(), kin, pho, "0P", func(k, p float64) (kinetics.System, error) {
		sys, err := models.New("mm")
		if err != nil {
			return nil, err
		}
		cfg := sys.(kinetics.Configurable)
		if err := cfg.SetParam("pka", k); err != nil {
			return nil, err
		}
		if err := cfg.SetParam("pp1", p); err != nil {
			return nil, err
		}
		return sys, nil
	})
	if err != nil {
		t.Fatalf("Surface() error: %v", err)
	}
	if len(grid) != 2 || len(grid[0]) != 2 {
		t.Fatalf("grid shape %dx%d, want 2x2", len(grid), len(grid[0]))
	}

	// Fixing the phosphatase, more kinase means less 0P.
	if grid[1][0] > grid[0][0]+1e-9 {
		t.Errorf("0P did not fall with kinase: %v vs %v", grid[0][0], grid[1][0])
	}
	// Fixing the kinase, more phosphatase means more 0P.
	if grid[0][1] < grid[0][0]-1e-9 {
		t.Errorf("0P did not rise with phosphatase: %v vs %v", grid[0][0], grid[0][1])
	}
}

func TestEnsembleCurve(t *testing.T) {
	mk := func(vals []float64) *Result {
		r := &Result{FractionNames: []string{"0P"}}
		for _, v := range vals {
			r.Points = append(r.Points, Point{Fractions: []float64{v}})
		}
		return r
	}

	mean, sd, err := EnsembleCurve([]*Result{mk([]float64{0.2, 0.4}), mk([]float64{0.4, 0.6})}, "0P")
	if err != nil {
		t.Fatalf("EnsembleCurve() error: %v", err)
	}
	if math.Abs(mean[0]-0.3) > 1e-12 || math.Abs(mean[1]-0.5) > 1e-12 {
		t.Errorf("mean = %v, want [0.3 0.5]", mean)
	}
	if sd[0] <= 0 {
		t.Errorf("sd[0] = %v, want > 0", sd[0])
	}

	_, sd, err = EnsembleCurve([]*Result{mk([]float64{0.2})}, "0P")
	if err != nil {
		t.Fatal(err)
	}
	if sd[0] != 0 {
		t.Errorf("single sweep sd = %v, want 0", sd[0])
	}

	if _, _, err := EnsembleCurve(nil, "0P"); err == nil {
		t.Error("no sweeps should fail")
	}
	if _, _, err := EnsembleCurve([]*Result{mk([]float64{1}), mk([]float64{1, 2})}, "0P"); err == nil {
		t.Error("mismatched sweep lengths should fail")
	}
}
