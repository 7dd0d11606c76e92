// Package drives provides time-varying enzyme activity sources. A drive
// returns per-enzyme multipliers of the nominal concentrations, modelling
// e.g. transient PKA activation during beta-adrenergic stimulation.
package drives

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/kochlab/phosphosim/internal/kinetics"
	"github.com/kochlab/phosphosim/internal/models"
)

// Constant keeps every enzyme at its nominal concentration.
type Constant struct {
	dim int
}

func NewConstant(dim int) *Constant {
	if dim <= 0 {
		dim = 1
	}
	return &Constant{dim: dim}
}

func (c *Constant) Activities(t float64) kinetics.Activity {
	return kinetics.Ones(c.dim)
}

// Pulses gates one enzyme with an on/off interval list [start1, end1,
// start2, end2, ...]; the multiplier is 1 inside any interval and 0 outside.
// All other enzymes stay at 1.
type Pulses struct {
	dim       int
	enzyme    int
	intervals []float64
}

func NewPulses(dim, enzyme int, intervals []float64) (*Pulses, error) {
	if len(intervals)%2 != 0 {
		return nil, fmt.Errorf("pulse intervals must come in start/end pairs, got %d values", len(intervals))
	}
	if enzyme < 0 || enzyme >= dim {
		return nil, fmt.Errorf("enzyme index %d out of range for %d enzymes", enzyme, dim)
	}
	return &Pulses{dim: dim, enzyme: enzyme, intervals: intervals}, nil
}

func (p *Pulses) Activities(t float64) kinetics.Activity {
	a := kinetics.Ones(p.dim)
	a[p.enzyme] = 0
	for i := 0; i+1 < len(p.intervals); i += 2 {
		if t >= p.intervals[i] && t <= p.intervals[i+1] {
			a[p.enzyme] = 1
			break
		}
	}
	return a
}

// DecayingPulses is like Pulses, but after the end of the most recent pulse
// the activity decays exponentially with rate k (k < 0) instead of switching
// off, modelling kinase deactivation kinetics.
type DecayingPulses struct {
	dim       int
	enzyme    int
	intervals []float64
	k         float64
}

func NewDecayingPulses(dim, enzyme int, intervals []float64, k float64) (*DecayingPulses, error) {
	if len(intervals)%2 != 0 {
		return nil, fmt.Errorf("pulse intervals must come in start/end pairs, got %d values", len(intervals))
	}
	if enzyme < 0 || enzyme >= dim {
		return nil, fmt.Errorf("enzyme index %d out of range for %d enzymes", enzyme, dim)
	}
	return &DecayingPulses{dim: dim, enzyme: enzyme, intervals: intervals, k: k}, nil
}

func (p *DecayingPulses) Activities(t float64) kinetics.Activity {
	a := kinetics.Ones(p.dim)
	level := 0.0
	for i := 0; i+1 < len(p.intervals); i += 2 {
		if t >= p.intervals[i] {
			if t < p.intervals[i+1] {
				level = 1
			} else {
				level = math.Exp(p.k * (t - p.intervals[i+1]))
			}
		}
	}
	a[p.enzyme] = level
	return a
}

// RandomTrain builds a pulse interval list: pulses of pulseDur separated by
// pauseDur starting at tFirst, where each pulse keeps its slot with
// probability pKeep and is otherwise displaced to a random position before
// tEnd. Deterministic for a given seed.
func RandomTrain(seed int64, pulses int, pulseDur, pauseDur, pKeep, tFirst, tEnd float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	s := make([]float64, 0, 2*pulses)
	for i := 1; i <= pulses; i++ {
		var start float64
		if rng.Float64() < pKeep {
			start = tFirst + float64(i-1)*(pulseDur+pauseDur)
		} else {
			start = float64(rng.Intn(int(tEnd) + 1))
		}
		s = append(s, start, start+pulseDur)
	}
	sort.Float64s(s)
	return s
}

// Config carries the knobs the named drives draw on. Zero values for the
// random train fall back to the defaults below.
type Config struct {
	Intervals []float64 // pulses, decaying
	Decay     float64   // decaying
	Seed      int64     // random
	Count     int       // random: pulses in the train
	PulseDur  float64   // random: pulse length (s)
	PauseDur  float64   // random: scheduled gap between pulses (s)
	PKeep     float64   // random: chance a pulse keeps its slot
}

// New builds a drive by name for a system with dim enzymes. The PKA pool is
// the driven enzyme, matching the stimulation protocols of the study.
func New(name string, dim int, cfg Config) (kinetics.Drive, error) {
	switch name {
	case "", "constant":
		return NewConstant(dim), nil
	case "pulses":
		return NewPulses(dim, models.EnzPKA, cfg.Intervals)
	case "decaying":
		return NewDecayingPulses(dim, models.EnzPKA, cfg.Intervals, cfg.Decay)
	case "random":
		count := cfg.Count
		if count <= 0 {
			count = 10
		}
		pulseDur := cfg.PulseDur
		if pulseDur <= 0 {
			pulseDur = 60
		}
		pauseDur := cfg.PauseDur
		if pauseDur <= 0 {
			pauseDur = 540
		}
		pKeep := cfg.PKeep
		if pKeep <= 0 {
			pKeep = 0.8
		}
		tEnd := float64(count) * (pulseDur + pauseDur)
		train := RandomTrain(cfg.Seed, count, pulseDur, pauseDur, pKeep, 0, tEnd)
		return NewPulses(dim, models.EnzPKA, train)
	default:
		return nil, fmt.Errorf("unknown drive: %s", name)
	}
}
