// Package models implements the cMyBP-C phosphorylation reaction networks.
//
// The protein carries four phosphorylation sites: the serine cascade alpha,
// beta, gamma (phosphorylated in order by PKA) and the delta site
// (phosphorylated by PKC). Dephosphorylation is carried out by PP1 and PP2A.
// Species are named by the sites they carry, e.g. ABD is phosphorylated on
// alpha, beta and delta. All substrates of one enzyme compete for its pool,
// captured by the kappa term of the tQSSA rate law.
//
// Variants, in order of increasing mechanism:
//
//   - [MichaelisMenten]: plain competitive tQSSA network (model 1)
//   - [Activation]: 2P/3P-fraction activation of reaction 2 (model 2)
//   - [Allosteric]: explicit allosteric activation of reaction 2 (model 3)
//   - [Structural]: transiently structured Atr intermediate (model 4)
//   - [Final]: Structural plus PP2A fast path and Atr rephosphorylation
//   - [RSK2]: Final plus RSK2 phosphorylation of P0 and D
//
// Every variant conserves the summed concentration of all states: mass only
// redistributes between phosphoforms. Each implements [kinetics.Conserved],
// [kinetics.Labeled], [kinetics.Fractioned] and [kinetics.Configurable].
package models
