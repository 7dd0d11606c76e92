package models

// NumReactions is the number of tQSSA reactions in the core network:
// six PKA phosphorylations, four PKC phosphorylations, ten PP1 and ten
// PP2A dephosphorylations. Indices are zero-based, so reaction r of the
// published scheme (v1..v30) lives at index r-1.
const NumReactions = 30

// Params holds the catalytic and Michaelis constants of the core network.
// Values are immutable during one run and varied across fitting iterations.
type Params struct {
	Kcat [NumReactions]float64 // 1/s
	Km   [NumReactions]float64 // mol/L
}

// Enzymes holds total enzyme concentrations (mol/L). Activity multipliers
// from a drive scale these at evaluation time.
type Enzymes struct {
	PKA  float64
	PKC  float64
	PP1  float64
	PP2A float64
	RSK2 float64
}

// Enzyme order in activity vectors.
const (
	EnzPKA = iota
	EnzPKC
	EnzPP1
	EnzPP2A
	EnzRSK2
)

func (e Enzymes) scaled(a []float64) Enzymes {
	s := e
	if len(a) > EnzPKA {
		s.PKA *= a[EnzPKA]
	}
	if len(a) > EnzPKC {
		s.PKC *= a[EnzPKC]
	}
	if len(a) > EnzPP1 {
		s.PP1 *= a[EnzPP1]
	}
	if len(a) > EnzPP2A {
		s.PP2A *= a[EnzPP2A]
	}
	if len(a) > EnzRSK2 {
		s.RSK2 *= a[EnzRSK2]
	}
	return s
}

// DefaultParams returns the demo parameter set: experimentally measured PKC
// constants, and representative values for the PKA/PP1/PP2A constants that
// were calibrated against in-vitro phosphorylation assays.
func DefaultParams() Params {
	var p Params

	// PKA, serine cascade (P0->A->AB->ABG) and the same sites on the
	// delta branch (D->AD->ABD), secondary sites slower.
	for _, i := range []int{0, 3, 6} {
		p.Kcat[i] = 8.0
		p.Km[i] = 2.5e-6
	}
	for _, i := range []int{21, 24, 27} {
		p.Kcat[i] = 0.8
		p.Km[i] = 5e-6
	}

	// PKC, measured: kcat mean of the two site assays, Km spread across
	// the four substrate states.
	pkcKm := []float64{3.167e-6, 4.624e-6, 6.080e-6, 7.537e-6}
	for n, i := range []int{9, 12, 15, 18} {
		p.Kcat[i] = 5.157
		p.Km[i] = pkcKm[n]
	}

	// PP1 primary dephosphorylations and the faster secondary-site set.
	for _, i := range []int{1, 4, 7, 10, 13, 16, 19} {
		p.Kcat[i] = 1.5
		p.Km[i] = 4e-6
	}
	for _, i := range []int{22, 25, 28} {
		p.Kcat[i] = 3.0
		p.Km[i] = 8e-6
	}

	// PP2A.
	for _, i := range []int{2, 5, 8, 11, 14, 17, 20} {
		p.Kcat[i] = 0.9
		p.Km[i] = 6e-6
	}
	for _, i := range []int{23, 26, 29} {
		p.Kcat[i] = 1.8
		p.Km[i] = 9e-6
	}

	return p
}

// DefaultEnzymes matches the demo steady-state scenario: PKA against PP1.
func DefaultEnzymes() Enzymes {
	return Enzymes{PKA: 1e-7, PP1: 1e-7}
}

// tqssa is the total quasi-steady-state rate law. kappa is the full
// competition sum over all substrates of the enzyme pool, including sub
// itself, so the denominator removes the self term before adding sub back.
func tqssa(kcat, enz, sub, km, kappa float64) float64 {
	if enz == 0 || sub == 0 {
		return 0
	}
	return kcat * enz * sub / (km*(1+kappa-sub/km) + sub)
}

// core carries the eight phosphorylation-state concentrations shared by all
// model variants. Nine-species variants track Atr separately.
type core struct {
	P0, A, AB, ABG, D, AD, ABD, ABGD float64
}

// kappas are per-enzyme competition sums. Variant-specific substrates (Atr)
// contribute through the extra argument of fluxes.
type kappas struct {
	PKA, PKC, PP1, PP2A float64
}

// fluxes evaluates the 30 core reaction rates. The returned kappas include
// the extra contributions, for variants that add fluxes on the same pools.
func (p *Params) fluxes(c core, e Enzymes, extra kappas) (v [NumReactions]float64, k kappas) {
	k.PKA = extra.PKA + c.P0/p.Km[0] + c.A/p.Km[3] + c.AB/p.Km[6] +
		c.D/p.Km[21] + c.AD/p.Km[24] + c.ABD/p.Km[27]
	k.PKC = extra.PKC + c.P0/p.Km[9] + c.A/p.Km[12] + c.AB/p.Km[15] + c.ABG/p.Km[18]
	k.PP1 = extra.PP1 + c.A/p.Km[1] + c.AB/p.Km[4] + c.ABG/p.Km[7] +
		c.D/p.Km[10] + c.AD/p.Km[13] + c.AD/p.Km[22] +
		c.ABD/p.Km[16] + c.ABD/p.Km[25] + c.ABGD/p.Km[19] + c.ABGD/p.Km[28]
	k.PP2A = extra.PP2A + c.A/p.Km[2] + c.AB/p.Km[5] + c.ABG/p.Km[8] +
		c.D/p.Km[11] + c.AD/p.Km[14] + c.AD/p.Km[23] +
		c.ABD/p.Km[17] + c.ABD/p.Km[26] + c.ABGD/p.Km[20] + c.ABGD/p.Km[29]

	// PKA
	v[0] = tqssa(p.Kcat[0], e.PKA, c.P0, p.Km[0], k.PKA)
	v[3] = tqssa(p.Kcat[3], e.PKA, c.A, p.Km[3], k.PKA)
	v[6] = tqssa(p.Kcat[6], e.PKA, c.AB, p.Km[6], k.PKA)
	v[21] = tqssa(p.Kcat[21], e.PKA, c.D, p.Km[21], k.PKA)
	v[24] = tqssa(p.Kcat[24], e.PKA, c.AD, p.Km[24], k.PKA)
	v[27] = tqssa(p.Kcat[27], e.PKA, c.ABD, p.Km[27], k.PKA)

	// PKC
	v[9] = tqssa(p.Kcat[9], e.PKC, c.P0, p.Km[9], k.PKC)
	v[12] = tqssa(p.Kcat[12], e.PKC, c.A, p.Km[12], k.PKC)
	v[15] = tqssa(p.Kcat[15], e.PKC, c.AB, p.Km[15], k.PKC)
	v[18] = tqssa(p.Kcat[18], e.PKC, c.ABG, p.Km[18], k.PKC)

	// PP1
	v[1] = tqssa(p.Kcat[1], e.PP1, c.A, p.Km[1], k.PP1)
	v[4] = tqssa(p.Kcat[4], e.PP1, c.AB, p.Km[4], k.PP1)
	v[7] = tqssa(p.Kcat[7], e.PP1, c.ABG, p.Km[7], k.PP1)
	v[10] = tqssa(p.Kcat[10], e.PP1, c.D, p.Km[10], k.PP1)
	v[13] = tqssa(p.Kcat[13], e.PP1, c.AD, p.Km[13], k.PP1)
	v[16] = tqssa(p.Kcat[16], e.PP1, c.ABD, p.Km[16], k.PP1)
	v[19] = tqssa(p.Kcat[19], e.PP1, c.ABGD, p.Km[19], k.PP1)
	v[22] = tqssa(p.Kcat[22], e.PP1, c.AD, p.Km[22], k.PP1)
	v[25] = tqssa(p.Kcat[25], e.PP1, c.ABD, p.Km[25], k.PP1)
	v[28] = tqssa(p.Kcat[28], e.PP1, c.ABGD, p.Km[28], k.PP1)

	// PP2A
	v[2] = tqssa(p.Kcat[2], e.PP2A, c.A, p.Km[2], k.PP2A)
	v[5] = tqssa(p.Kcat[5], e.PP2A, c.AB, p.Km[5], k.PP2A)
	v[8] = tqssa(p.Kcat[8], e.PP2A, c.ABG, p.Km[8], k.PP2A)
	v[11] = tqssa(p.Kcat[11], e.PP2A, c.D, p.Km[11], k.PP2A)
	v[14] = tqssa(p.Kcat[14], e.PP2A, c.AD, p.Km[14], k.PP2A)
	v[17] = tqssa(p.Kcat[17], e.PP2A, c.ABD, p.Km[17], k.PP2A)
	v[20] = tqssa(p.Kcat[20], e.PP2A, c.ABGD, p.Km[20], k.PP2A)
	v[23] = tqssa(p.Kcat[23], e.PP2A, c.AD, p.Km[23], k.PP2A)
	v[26] = tqssa(p.Kcat[26], e.PP2A, c.ABD, p.Km[26], k.PP2A)
	v[29] = tqssa(p.Kcat[29], e.PP2A, c.ABGD, p.Km[29], k.PP2A)

	return v, k
}
