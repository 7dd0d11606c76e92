package models

import (
	"fmt"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// MichaelisMenten is the base calibration model (model 1): eight
// phosphorylation states of cMyBP-C, four enzyme pools, tQSSA rate laws
// with substrate competition, and nothing else.
type MichaelisMenten struct {
	P   Params
	Enz Enzymes
}

func NewMichaelisMenten() *MichaelisMenten {
	return &MichaelisMenten{P: DefaultParams(), Enz: DefaultEnzymes()}
}

func (m *MichaelisMenten) StateDim() int  { return numBaseSpecies }
func (m *MichaelisMenten) EnzymeDim() int { return 4 }

func (m *MichaelisMenten) SpeciesNames() []string { return baseSpeciesNames }
func (m *MichaelisMenten) FractionNames() []string {
	return fractionNames
}

func (m *MichaelisMenten) Fractions(x kinetics.State) []float64 { return baseFractions(x) }

func (m *MichaelisMenten) Total(x kinetics.State) float64 { return x.Total() }

func (m *MichaelisMenten) Derive(x kinetics.State, a kinetics.Activity, t float64) kinetics.State {
	c := core{
		P0: x[iP0], A: x[iA], AB: x[iAB], ABG: x[iABG],
		D: x[iD], AD: x[iAD], ABD: x[iABD], ABGD: x[iABGD],
	}
	e := m.Enz.scaled(a)
	v, _ := m.P.fluxes(c, e, kappas{})

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

func (m *MichaelisMenten) GetParams() map[string]float64 {
	return paramMap(&m.P, &m.Enz)
}

func (m *MichaelisMenten) SetParam(name string, value float64) error {
	if ok, err := setSharedParam(&m.P, &m.Enz, name, value); ok {
		return err
	}
	return fmt.Errorf("unknown param: %s", name)
}
