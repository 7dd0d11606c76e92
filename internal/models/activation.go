package models

import (
	"fmt"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Activation is the phenomenological variant (model 2): the PP1
// dephosphorylation of A is activated by the relative abundance of the
// doubly and triply phosphorylated forms, with a saturating dependence.
type Activation struct {
	P   Params
	Enz Enzymes

	// ActFactor is the maximal fold-activation of reaction 2, ActKa the
	// half-saturating 2P/3P fraction.
	ActFactor float64
	ActKa     float64
}

func NewActivation() *Activation {
	return &Activation{
		P:         DefaultParams(),
		Enz:       DefaultEnzymes(),
		ActFactor: 10.0,
		ActKa:     0.2,
	}
}

func (m *Activation) StateDim() int  { return numBaseSpecies }
func (m *Activation) EnzymeDim() int { return 4 }

func (m *Activation) SpeciesNames() []string  { return baseSpeciesNames }
func (m *Activation) FractionNames() []string { return fractionNames }

func (m *Activation) Fractions(x kinetics.State) []float64 { return baseFractions(x) }

func (m *Activation) Total(x kinetics.State) float64 { return x.Total() }

func (m *Activation) Derive(x kinetics.State, a kinetics.Activity, t float64) kinetics.State {
	c := core{
		P0: x[iP0], A: x[iA], AB: x[iAB], ABG: x[iABG],
		D: x[iD], AD: x[iAD], ABD: x[iABD], ABGD: x[iABGD],
	}
	e := m.Enz.scaled(a)
	v, _ := m.P.fluxes(c, e, kappas{})

	total := x.Total()
	if total > 0 {
		frac23 := (c.AB + c.ABG + c.AD + c.ABD) / total
		v[1] *= 1 + m.ActFactor*frac23/(m.ActKa+frac23)
	}

	dx := make(kinetics.State, numBaseSpecies)
	dx[iP0] = v[1] + v[2] + v[10] + v[11] - v[0] - v[9]
	dx[iA] = v[0] + v[4] + v[5] + v[13] + v[14] - v[1] - v[2] - v[3] - v[12]
	dx[iAB] = v[3] + v[7] + v[8] + v[16] + v[17] - v[4] - v[5] - v[6] - v[15]
	dx[iABG] = v[6] + v[19] + v[20] - v[7] - v[8] - v[18]
	dx[iD] = v[9] + v[22] + v[23] - v[10] - v[11] - v[21]
	dx[iAD] = v[12] + v[21] + v[25] + v[26] - v[13] - v[14] - v[22] - v[23] - v[24]
	dx[iABD] = v[15] + v[24] + v[28] + v[29] - v[16] - v[17] - v[25] - v[26] - v[27]
	dx[iABGD] = v[18] + v[27] - v[19] - v[20] - v[28] - v[29]
	return dx
}

func (m *Activation) GetParams() map[string]float64 {
	p := paramMap(&m.P, &m.Enz)
	p["act_factor"] = m.ActFactor
	p["act_ka"] = m.ActKa
	return p
}

func (m *Activation) SetParam(name string, value float64) error {
	if ok, err := setSharedParam(&m.P, &m.Enz, name, value); ok {
		return err
	}
	switch name {
	case "act_factor":
		m.ActFactor = value
	case "act_ka":
		m.ActKa = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
