package fit

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MSE returns the mean squared error for a sum of squared residuals over n
// observations.
func MSE(ssr float64, n int) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("fit: need at least one observation")
	}
	return ssr / float64(n), nil
}

// AICc returns the corrected Akaike information criterion for a least
// squares fit with k free parameters and n observations. Lower is better;
// the correction term requires n > k+1.
func AICc(ssr float64, k, n int) (float64, error) {
	if ssr <= 0 {
		return 0, fmt.Errorf("fit: ssr must be positive")
	}
	if n <= k+1 {
		return 0, fmt.Errorf("fit: need more observations (%d) than parameters plus one (%d)", n, k+1)
	}
	kf, nf := float64(k), float64(n)
	aic := 2*kf + nf*(math.Log(ssr/nf)+1)
	return aic + 2*kf*(kf+1)/(nf-kf-1), nil
}

// FilterParamSets keeps candidates whose normalized error falls below
// mean + cutSD standard deviations, sorted best first. Errors are
// normalized to the best candidate so the cut is scale free.
func FilterParamSets(cands []Candidate, cutSD float64) []Candidate {
	if len(cands) == 0 {
		return nil
	}

	sorted := append([]Candidate(nil), cands...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SSR < sorted[j].SSR })
	if len(sorted) == 1 {
		return sorted
	}

	best := sorted[0].SSR
	if best <= 0 {
		best = math.SmallestNonzeroFloat64
	}
	norm := make([]float64, len(sorted))
	for i, c := range sorted {
		norm[i] = c.SSR / best
	}

	mean, std := stat.MeanStdDev(norm, nil)
	cut := mean + cutSD*std

	kept := sorted[:0:0]
	for i, c := range sorted {
		if norm[i] <= cut {
			kept = append(kept, c)
		}
	}
	return kept
}
