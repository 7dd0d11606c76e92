package integrators

import "github.com/kochlab/phosphosim/internal/kinetics"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys kinetics.System, x kinetics.State, a kinetics.Activity, t float64, dt float64) kinetics.State {
	dx := sys.Derive(x, a, t)
	result := make(kinetics.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
