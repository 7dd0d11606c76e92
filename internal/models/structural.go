package models

import (
	"fmt"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Structural is model 4: PP1 dephosphorylation of the doubly phosphorylated
// forms yields a transiently structured alpha species Atr, which is itself a
// much better PP1 substrate and slowly isomerizes back to the disordered A.
type Structural struct {
	P   Params
	Enz Enzymes

	KcatFastPP1 float64 // Atr -> P0 turnover by PP1
	KmFastPP1   float64
	KIsoF       float64 // Atr -> A
	KIsoR       float64 // A -> Atr
}

func NewStructural() *Structural {
	return &Structural{
		P:           DefaultParams(),
		Enz:         DefaultEnzymes(),
		KcatFastPP1: 15.0,
		KmFastPP1:   4e-6,
		KIsoF:       0.01,
		KIsoR:       0.001,
	}
}

func (m *Structural) StateDim() int  { return numStructSpecies }
func (m *Structural) EnzymeDim() int { return 4 }

func (m *Structural) SpeciesNames() []string  { return structSpeciesNames }
func (m *Structural) FractionNames() []string { return fractionNames }

func (m *Structural) Fractions(x kinetics.State) []float64 { return structFractions(x) }

func (m *Structural) Total(x kinetics.State) float64 { return x.Total() }

func (m *Structural) Derive(x kinetics.State, a kinetics.Activity, t float64) kinetics.State {
	c := core{
		P0: x[jP0], A: x[jA], AB: x[jAB], ABG: x[jABG],
		D: x[jD], AD: x[jAD], ABD: x[jABD], ABGD: x[jABGD],
	}
	atr := x[jAtr]
	e := m.Enz.scaled(a)
	v, k := m.P.fluxes(c, e, kappas{PP1: atr / m.KmFastPP1})

	v2f := tqssa(m.KcatFastPP1, e.PP1, atr, m.KmFastPP1, k.PP1)
	isoF := m.KIsoF * atr
	isoR := m.KIsoR * c.A

	dx := make(kinetics.State, numStructSpecies)
	dx[jP0] = v[1] + v2f + v[2] + v[10] + v[11] - v[0] - v[9]
	dx[jA] = v[0] + v[5] + v[14] - v[1] - v[2] - v[3] - v[12] + isoF - isoR
	dx[jAtr] = v[4] + v[13] - isoF + isoR - v2f
	dx[jAB] = v[3] + v[7] + v[8] + v[16] + v[17] - v[4] - v[5] - v[6] - v[15]
	dx[jABG] = v[6] + v[19] + v[20] - v[7] - v[8] - v[18]
	dx[jD] = v[9] + v[22] + v[23] - v[10] - v[11] - v[21]
	dx[jAD] = v[12] + v[21] + v[25] + v[26] - v[13] - v[14] - v[22] - v[23] - v[24]
	dx[jABD] = v[15] + v[24] + v[28] + v[29] - v[16] - v[17] - v[25] - v[26] - v[27]
	dx[jABGD] = v[18] + v[27] - v[19] - v[20] - v[28] - v[29]
	return dx
}

func (m *Structural) GetParams() map[string]float64 {
	p := paramMap(&m.P, &m.Enz)
	p["kcat_fast_pp1"] = m.KcatFastPP1
	p["km_fast_pp1"] = m.KmFastPP1
	p["k_iso_f"] = m.KIsoF
	p["k_iso_r"] = m.KIsoR
	return p
}

func (m *Structural) SetParam(name string, value float64) error {
	if ok, err := setSharedParam(&m.P, &m.Enz, name, value); ok {
		return err
	}
	switch name {
	case "kcat_fast_pp1":
		m.KcatFastPP1 = value
	case "km_fast_pp1":
		m.KmFastPP1 = value
	case "k_iso_f":
		m.KIsoF = value
	case "k_iso_r":
		m.KIsoR = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
