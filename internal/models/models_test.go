package models

import (
	"math"
	"testing"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

const testTotal = 20e-6

func TestRegistry(t *testing.T) {
	names := List()
	want := []string{"activation", "allosteric", "final", "mm", "rsk2", "structural"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	for _, name := range names {
		sys, err := New(name)
		if err != nil {
			t.Errorf("New(%q) error: %v", name, err)
			continue
		}
		if sys == nil {
			t.Errorf("New(%q) returned nil", name)
		}
	}

	if _, err := New("pendulum"); err == nil {
		t.Error("unknown model should fail")
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name      string
		stateDim  int
		enzymeDim int
	}{
		{"mm", 8, 4},
		{"activation", 8, 4},
		{"allosteric", 8, 4},
		{"structural", 9, 4},
		{"final", 9, 4},
		{"rsk2", 9, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := New(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if got := sys.StateDim(); got != tt.stateDim {
				t.Errorf("StateDim() = %d, want %d", got, tt.stateDim)
			}
			if got := sys.EnzymeDim(); got != tt.enzymeDim {
				t.Errorf("EnzymeDim() = %d, want %d", got, tt.enzymeDim)
			}
		})
	}
}

// spreadState puts mass in every species so all fluxes are active.
func spreadState(dim int) kinetics.State {
	x := make(kinetics.State, dim)
	remaining := testTotal
	for i := 0; i < dim-1; i++ {
		x[i] = remaining / 2
		remaining /= 2
	}
	x[dim-1] = remaining
	return x
}

// Every reaction moves protein between states, so the derivative components
// must cancel exactly.
func TestDeriveMassBalance(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			sys, err := New(name)
			if err != nil {
				t.Fatal(err)
			}
			x := spreadState(sys.StateDim())
			a := kinetics.Ones(sys.EnzymeDim())

			dx := sys.Derive(x, a, 0)
			sum := 0.0
			for _, v := range dx {
				sum += v
			}
			scale := dx.Norm()
			if scale == 0 {
				t.Fatal("all derivatives are zero in a mixed state")
			}
			if math.Abs(sum)/scale > 1e-10 {
				t.Errorf("derivative sum %e is not balanced (norm %e)", sum, scale)
			}
		})
	}
}

func TestDeriveZeroWithoutEnzymes(t *testing.T) {
	sys := NewMichaelisMenten()
	sys.Enz = Enzymes{}

	dx := sys.Derive(spreadState(8), kinetics.Ones(4), 0)
	if dx.Norm() != 0 {
		t.Errorf("no enzymes but nonzero flux: %v", dx)
	}
}

func TestPhosphorylationProceeds(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			sys, err := New(name)
			if err != nil {
				t.Fatal(err)
			}
			x := InitialState(sys.StateDim(), testTotal)
			dx := sys.Derive(x, kinetics.Ones(sys.EnzymeDim()), 0)

			// PKA is present by default, so P0 must be consumed.
			if dx[0] >= 0 {
				t.Errorf("dP0 = %e, want negative under kinase", dx[0])
			}
		})
	}
}

func TestActivityScalesEnzymes(t *testing.T) {
	sys := NewMichaelisMenten()
	x := InitialState(8, testTotal)

	on := sys.Derive(x, kinetics.Ones(4), 0)
	off := sys.Derive(x, kinetics.Activity{0, 1, 1, 1}, 0)

	if on[0] >= 0 {
		t.Fatalf("dP0 = %e with PKA active", on[0])
	}
	if off[0] != 0 {
		t.Errorf("dP0 = %e with PKA silenced, want 0", off[0])
	}
}

func TestFractions(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			sys, err := New(name)
			if err != nil {
				t.Fatal(err)
			}
			fr, ok := sys.(kinetics.Fractioned)
			if !ok {
				t.Fatal("model does not expose fractions")
			}

			names := fr.FractionNames()
			if len(names) != 5 || names[0] != "0P" || names[4] != "4P" {
				t.Fatalf("FractionNames() = %v", names)
			}

			f := fr.Fractions(spreadState(sys.StateDim()))
			sum := 0.0
			for _, v := range f {
				sum += v
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("fractions sum to %v", sum)
			}

			all0 := fr.Fractions(InitialState(sys.StateDim(), testTotal))
			if math.Abs(all0[0]-1) > 1e-12 {
				t.Errorf("unphosphorylated pool has 0P fraction %v", all0[0])
			}
		})
	}
}

func TestStructuralFractionsCountAtr(t *testing.T) {
	sys := NewStructural()
	x := make(kinetics.State, 9)
	x[jA] = 5e-6
	x[jAtr] = 5e-6
	x[jD] = 10e-6

	f := sys.Fractions(x)
	if math.Abs(f[1]-1) > 1e-12 {
		t.Errorf("1P fraction = %v, want 1 (A, Atr and D are all singly phosphorylated)", f[1])
	}
}

func TestSpeciesNames(t *testing.T) {
	mm, _ := New("mm")
	base := mm.(kinetics.Labeled).SpeciesNames()
	if len(base) != 8 || base[0] != "P0" || base[7] != "ABGD" {
		t.Errorf("base species = %v", base)
	}

	st, _ := New("structural")
	str := st.(kinetics.Labeled).SpeciesNames()
	if len(str) != 9 || str[2] != "Atr" {
		t.Errorf("structural species = %v", str)
	}
}

func TestInitialState(t *testing.T) {
	x := InitialState(8, testTotal)
	if x[0] != testTotal {
		t.Errorf("x[0] = %v, want %v", x[0], testTotal)
	}
	for i := 1; i < 8; i++ {
		if x[i] != 0 {
			t.Errorf("x[%d] = %v, want 0", i, x[i])
		}
	}
}

func TestParamRoundTrip(t *testing.T) {
	sys := NewMichaelisMenten()

	if err := sys.SetParam("kcat1", 12.5); err != nil {
		t.Fatalf("SetParam(kcat1) error: %v", err)
	}
	if err := sys.SetParam("km30", 7e-6); err != nil {
		t.Fatalf("SetParam(km30) error: %v", err)
	}
	if err := sys.SetParam("pka", 3e-7); err != nil {
		t.Fatalf("SetParam(pka) error: %v", err)
	}

	params := sys.GetParams()
	if params["kcat1"] != 12.5 {
		t.Errorf("kcat1 = %v", params["kcat1"])
	}
	if params["km30"] != 7e-6 {
		t.Errorf("km30 = %v", params["km30"])
	}
	if params["pka"] != 3e-7 {
		t.Errorf("pka = %v", params["pka"])
	}
}

func TestParamErrors(t *testing.T) {
	sys := NewMichaelisMenten()

	if err := sys.SetParam("kcat0", 1); err == nil {
		t.Error("reaction index 0 should fail (reactions are 1..30)")
	}
	if err := sys.SetParam("kcat31", 1); err == nil {
		t.Error("reaction index 31 should fail")
	}
	if err := sys.SetParam("bogus", 1); err == nil {
		t.Error("unknown name should fail")
	}
	if err := sys.SetParam("kcat_fast_pp1", 1); err == nil {
		t.Error("structural-only name should fail on the base model")
	}
}

func TestModelSpecificParams(t *testing.T) {
	st := NewStructural()
	if err := st.SetParam("kcat_fast_pp1", 20.0); err != nil {
		t.Fatalf("SetParam(kcat_fast_pp1) error: %v", err)
	}
	if got := st.GetParams()["kcat_fast_pp1"]; got != 20.0 {
		t.Errorf("kcat_fast_pp1 = %v", got)
	}

	r := NewRSK2()
	if err := r.SetParam("rsk2", 1e-7); err != nil {
		t.Fatalf("SetParam(rsk2) error: %v", err)
	}
	if err := r.SetParam("kcat_rsk2_p0", 2.0); err != nil {
		t.Fatalf("SetParam(kcat_rsk2_p0) error: %v", err)
	}
}

func TestCompetitionSlowsSharedEnzyme(t *testing.T) {
	p := DefaultParams()
	e := Enzymes{PKA: 1e-7}

	// P0 alone versus P0 plus a competing PKA substrate
	alone, _ := p.fluxes(core{P0: 10e-6}, e, kappas{})
	shared, _ := p.fluxes(core{P0: 10e-6, AB: 10e-6}, e, kappas{})

	if shared[0] >= alone[0] {
		t.Errorf("v1 with competition %e, without %e; competition must slow the shared pool",
			shared[0], alone[0])
	}
}

func TestExtraKappaSlowsFlux(t *testing.T) {
	p := DefaultParams()
	e := Enzymes{PP1: 1e-7}

	base, _ := p.fluxes(core{A: 10e-6}, e, kappas{})
	loaded, _ := p.fluxes(core{A: 10e-6}, e, kappas{PP1: 2.0})

	if loaded[1] >= base[1] {
		t.Errorf("v2 with extra competition %e, without %e", loaded[1], base[1])
	}
}
