package models

import (
	"fmt"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Final is the predictive model of the study: the structural-transition
// scheme with fast Atr dephosphorylation by both PP1 and PP2A, and with Atr
// accepted as substrate by PKA and PKC. Time-varying kinase activity enters
// through the drive's activity multipliers.
type Final struct {
	P   Params
	Enz Enzymes

	KcatFastPP1  float64
	KmFastPP1    float64
	KcatFastPP2A float64
	KmFastPP2A   float64
	KIsoF        float64
	KIsoR        float64
}

func NewFinal() *Final {
	return &Final{
		P:            DefaultParams(),
		Enz:          DefaultEnzymes(),
		KcatFastPP1:  15.0,
		KmFastPP1:    4e-6,
		KcatFastPP2A: 9.0,
		KmFastPP2A:   6e-6,
		KIsoF:        0.01,
		KIsoR:        0.001,
	}
}

func (m *Final) StateDim() int  { return numStructSpecies }
func (m *Final) EnzymeDim() int { return 4 }

func (m *Final) SpeciesNames() []string  { return structSpeciesNames }
func (m *Final) FractionNames() []string { return fractionNames }

func (m *Final) Fractions(x kinetics.State) []float64 { return structFractions(x) }

func (m *Final) Total(x kinetics.State) float64 { return x.Total() }

func (m *Final) Derive(x kinetics.State, a kinetics.Activity, t float64) kinetics.State {
	c := core{
		P0: x[jP0], A: x[jA], AB: x[jAB], ABG: x[jABG],
		D: x[jD], AD: x[jAD], ABD: x[jABD], ABGD: x[jABGD],
	}
	atr := x[jAtr]
	e := m.Enz.scaled(a)
	v, k := m.P.fluxes(c, e, kappas{
		PKA:  atr / m.P.Km[3],
		PKC:  atr / m.P.Km[12],
		PP1:  atr / m.KmFastPP1,
		PP2A: atr / m.KmFastPP2A,
	})

	v2f := tqssa(m.KcatFastPP1, e.PP1, atr, m.KmFastPP1, k.PP1)
	v3f := tqssa(m.KcatFastPP2A, e.PP2A, atr, m.KmFastPP2A, k.PP2A)
	// Atr shares the kinetic constants of A for both kinases.
	v4b := tqssa(m.P.Kcat[3], e.PKA, atr, m.P.Km[3], k.PKA)
	v13b := tqssa(m.P.Kcat[12], e.PKC, atr, m.P.Km[12], k.PKC)
	isoF := m.KIsoF * atr
	isoR := m.KIsoR * c.A

	dx := make(kinetics.State, numStructSpecies)
	dx[jP0] = v[1] + v2f + v[2] + v3f + v[10] + v[11] - v[0] - v[9]
	dx[jA] = v[0] - v[1] - v[2] - v[3] - v[12] + isoF - isoR
	dx[jAtr] = v[4] + v[5] + v[13] + v[14] - isoF + isoR - v2f - v3f - v4b - v13b
	dx[jAB] = v[3] + v4b + v[7] + v[8] + v[16] + v[17] - v[4] - v[5] - v[6] - v[15]
	dx[jABG] = v[6] + v[19] + v[20] - v[7] - v[8] - v[18]
	dx[jD] = v[9] + v[22] + v[23] - v[10] - v[11] - v[21]
	dx[jAD] = v[12] + v13b + v[21] + v[25] + v[26] - v[13] - v[14] - v[22] - v[23] - v[24]
	dx[jABD] = v[15] + v[24] + v[28] + v[29] - v[16] - v[17] - v[25] - v[26] - v[27]
	dx[jABGD] = v[18] + v[27] - v[19] - v[20] - v[28] - v[29]
	return dx
}

func (m *Final) GetParams() map[string]float64 {
	p := paramMap(&m.P, &m.Enz)
	p["kcat_fast_pp1"] = m.KcatFastPP1
	p["km_fast_pp1"] = m.KmFastPP1
	p["kcat_fast_pp2a"] = m.KcatFastPP2A
	p["km_fast_pp2a"] = m.KmFastPP2A
	p["k_iso_f"] = m.KIsoF
	p["k_iso_r"] = m.KIsoR
	return p
}

func (m *Final) SetParam(name string, value float64) error {
	if ok, err := setSharedParam(&m.P, &m.Enz, name, value); ok {
		return err
	}
	switch name {
	case "kcat_fast_pp1":
		m.KcatFastPP1 = value
	case "km_fast_pp1":
		m.KmFastPP1 = value
	case "kcat_fast_pp2a":
		m.KcatFastPP2A = value
	case "km_fast_pp2a":
		m.KmFastPP2A = value
	case "k_iso_f":
		m.KIsoF = value
	case "k_iso_r":
		m.KIsoR = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
