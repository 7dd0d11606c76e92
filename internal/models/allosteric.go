package models

import (
	"fmt"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Allosteric is model 3: the PP1 dephosphorylation of A is allosterically
// activated by binding of the doubly phosphorylated forms AD and AB, with
// an explicit two-site rate expression replacing the plain tQSSA flux.
type Allosteric struct {
	P   Params
	Enz Enzymes

	// Lambda couples activator binding to catalysis, KcatA is the turnover
	// of the activator-bound complex, Ka the activator binding constant.
	Lambda float64
	KcatA  float64
	Ka     float64
}

func NewAllosteric() *Allosteric {
	return &Allosteric{
		P:      DefaultParams(),
		Enz:    DefaultEnzymes(),
		Lambda: 0.1,
		KcatA:  15.0,
		Ka:     2e-6,
	}
}

func (m *Allosteric) StateDim() int  { return numBaseSpecies }
func (m *Allosteric) EnzymeDim() int { return 4 }

func (m *Allosteric) SpeciesNames() []string  { return baseSpeciesNames }
func (m *Allosteric) FractionNames() []string { return fractionNames }

func (m *Allosteric) Fractions(x kinetics.State) []float64 { return baseFractions(x) }

func (m *Allosteric) Total(x kinetics.State) float64 { return x.Total() }

func (m *Allosteric) Derive(x kinetics.State, a kinetics.Activity, t float64) kinetics.State {
	c := core{
		P0: x[iP0], A: x[iA], AB: x[iAB], ABG: x[iABG],
		D: x[iD], AD: x[iAD], ABD: x[iABD], ABGD: x[iABGD],
	}
	e := m.Enz.scaled(a)
	v, k := m.P.fluxes(c, e, kappas{})

	// Activator-dependent replacement for the A -> P0 PP1 flux.
	act := c.AD + c.AB
	k1, km1 := m.P.Kcat[1], m.P.Km[1]
	num := k1*e.PP1*c.A + m.KcatA*e.PP1*c.A*act/(m.Lambda*m.Ka)
	den := km1 + act*km1/m.Ka + c.A*act/(m.Lambda*m.Ka) + km1*(k.PP1-c.A/km1) + c.A
	if den != 0 {
		v[1] = num / den
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

func (m *Allosteric) GetParams() map[string]float64 {
	p := paramMap(&m.P, &m.Enz)
	p["lambda"] = m.Lambda
	p["kcat_act"] = m.KcatA
	p["ka"] = m.Ka
	return p
}

func (m *Allosteric) SetParam(name string, value float64) error {
	if ok, err := setSharedParam(&m.P, &m.Enz, name, value); ok {
		return err
	}
	switch name {
	case "lambda":
		m.Lambda = value
	case "kcat_act":
		m.KcatA = value
	case "ka":
		m.Ka = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
