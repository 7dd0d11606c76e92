package metrics

import (
	"github.com/kochlab/phosphosim/internal/kinetics"
)

// Settling records the first time at which the scaled derivative norm stays
// below the threshold, an online estimate of the time to steady state.
type Settling struct {
	name      string
	sys       kinetics.System
	threshold float64
	scale     float64
	settled   bool
	settledAt float64
	lastT     float64
}

func NewSettling(sys kinetics.System, threshold float64) *Settling {
	return &Settling{
		name:      "settling_time",
		sys:       sys,
		threshold: threshold,
	}
}

func (s *Settling) Name() string { return s.name }

func (s *Settling) Observe(x kinetics.State, a kinetics.Activity, t float64) {
	s.lastT = t
	if s.scale == 0 {
		if cons, ok := s.sys.(kinetics.Conserved); ok {
			s.scale = cons.Total(x)
		}
		if s.scale == 0 {
			s.scale = 1
		}
	}

	res := s.sys.Derive(x, a, t).Norm() / s.scale
	if res < s.threshold {
		if !s.settled {
			s.settled = true
			s.settledAt = t
		}
	} else {
		s.settled = false
	}
}

// Value returns the settling time, or the last observed time when the run
// never settled.
func (s *Settling) Value() float64 {
	if !s.settled {
		return s.lastT
	}
	return s.settledAt
}

func (s *Settling) Reset() {
	s.scale = 0
	s.settled = false
	s.settledAt = 0
	s.lastT = 0
}
