package models

import (
	"fmt"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// RSK2 extends the final model with ribosomal S6 kinase 2, which
// phosphorylates the alpha site on the unphosphorylated and delta forms.
// P0 and D compete for the RSK2 pool in a two-substrate denominator.
type RSK2 struct {
	Final

	KcatP0 float64 // P0 -> A
	KcatD  float64 // D -> AD
	KmP0   float64
	KmD    float64
}

func NewRSK2() *RSK2 {
	m := &RSK2{
		Final:  *NewFinal(),
		KcatP0: 1.8,
		KcatD:  1.8,
		KmP0:   1.3e-6,
		KmD:    1.3e-6,
	}
	return m
}

func (m *RSK2) EnzymeDim() int { return 5 }

func (m *RSK2) Derive(x kinetics.State, a kinetics.Activity, t float64) kinetics.State {
	dx := m.Final.Derive(x, a, t)

	e := m.Enz.scaled(a)
	p0, d := x[jP0], x[jD]

	v31, v32 := 0.0, 0.0
	if e.RSK2 > 0 {
		v31 = m.KcatP0 * e.RSK2 * p0 / (m.KmP0 + d/m.KmD + p0)
		v32 = m.KcatD * e.RSK2 * d / (m.KmD + p0/m.KmP0 + d)
	}

	dx[jP0] -= v31
	dx[jA] += v31
	dx[jD] -= v32
	dx[jAD] += v32
	return dx
}

func (m *RSK2) GetParams() map[string]float64 {
	p := m.Final.GetParams()
	p["kcat_rsk2_p0"] = m.KcatP0
	p["kcat_rsk2_d"] = m.KcatD
	p["km_rsk2_p0"] = m.KmP0
	p["km_rsk2_d"] = m.KmD
	return p
}

func (m *RSK2) SetParam(name string, value float64) error {
	switch name {
	case "kcat_rsk2_p0":
		m.KcatP0 = value
	case "kcat_rsk2_d":
		m.KcatD = value
	case "km_rsk2_p0":
		m.KmP0 = value
	case "km_rsk2_d":
		m.KmD = value
	default:
		if err := m.Final.SetParam(name, value); err != nil {
			return fmt.Errorf("unknown param: %s", name)
		}
	}
	return nil
}
