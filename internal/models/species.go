package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Species indices of the eight-state networks. Sites: alpha (A), beta (B),
// gamma (G) on the serine cascade, delta (D) on the PKC site.
const (
	iP0 = iota
	iA
	iAB
	iABG
	iD
	iAD
	iABD
	iABGD
	numBaseSpecies
)

// Species indices of the nine-state networks, which add the transiently
// structured alpha form Atr.
const (
	jP0 = iota
	jA
	jAtr
	jAB
	jABG
	jD
	jAD
	jABD
	jABGD
	numStructSpecies
)

var baseSpeciesNames = []string{"P0", "A", "AB", "ABG", "D", "AD", "ABD", "ABGD"}
var structSpeciesNames = []string{"P0", "A", "Atr", "AB", "ABG", "D", "AD", "ABD", "ABGD"}

var fractionNames = []string{"0P", "1P", "2P", "3P", "4P"}

// InitialState puts the whole moiety total in the unphosphorylated species.
func InitialState(dim int, total float64) kinetics.State {
	x := make(kinetics.State, dim)
	x[0] = total
	return x
}

// baseFractions maps the eight-state vector onto relative 0P..4P fractions.
func baseFractions(x kinetics.State) []float64 {
	total := x.Total()
	if total == 0 {
		return make([]float64, 5)
	}
	return []float64{
		x[iP0] / total,
		(x[iA] + x[iD]) / total,
		(x[iAB] + x[iAD]) / total,
		(x[iABG] + x[iABD]) / total,
		x[iABGD] / total,
	}
}

// structFractions maps the nine-state vector onto relative 0P..4P fractions;
// Atr counts as a singly phosphorylated form.
func structFractions(x kinetics.State) []float64 {
	total := x.Total()
	if total == 0 {
		return make([]float64, 5)
	}
	return []float64{
		x[jP0] / total,
		(x[jA] + x[jAtr] + x[jD]) / total,
		(x[jAB] + x[jAD]) / total,
		(x[jABG] + x[jABD]) / total,
		x[jABGD] / total,
	}
}

// paramMap exposes the shared kcat/km table plus enzyme concentrations under
// the names used for fitting: kcat1..kcat30, km1..km30, pka, pkc, pp1, pp2a.
func paramMap(p *Params, e *Enzymes) map[string]float64 {
	m := make(map[string]float64, 2*NumReactions+5)
	for i := 0; i < NumReactions; i++ {
		m["kcat"+strconv.Itoa(i+1)] = p.Kcat[i]
		m["km"+strconv.Itoa(i+1)] = p.Km[i]
	}
	m["pka"] = e.PKA
	m["pkc"] = e.PKC
	m["pp1"] = e.PP1
	m["pp2a"] = e.PP2A
	m["rsk2"] = e.RSK2
	return m
}

// setSharedParam handles the names emitted by paramMap; callers fall back to
// their model-specific extras when ok is false.
func setSharedParam(p *Params, e *Enzymes, name string, value float64) (ok bool, err error) {
	switch name {
	case "pka":
		e.PKA = value
		return true, nil
	case "pkc":
		e.PKC = value
		return true, nil
	case "pp1":
		e.PP1 = value
		return true, nil
	case "pp2a":
		e.PP2A = value
		return true, nil
	case "rsk2":
		e.RSK2 = value
		return true, nil
	}

	if rest, found := strings.CutPrefix(name, "kcat"); found {
		if i, convErr := strconv.Atoi(rest); convErr == nil {
			if i < 1 || i > NumReactions {
				return true, fmt.Errorf("reaction index out of range: %s", name)
			}
			p.Kcat[i-1] = value
			return true, nil
		}
	}
	if rest, found := strings.CutPrefix(name, "km"); found {
		if i, convErr := strconv.Atoi(rest); convErr == nil {
			if i < 1 || i > NumReactions {
				return true, fmt.Errorf("reaction index out of range: %s", name)
			}
			p.Km[i-1] = value
			return true, nil
		}
	}
	return false, nil
}
