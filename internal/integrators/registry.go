package integrators

import (
	"fmt"
	"sort"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

var registry = map[string]func() kinetics.Integrator{
	"euler": func() kinetics.Integrator { return NewEuler() },
	"rk4":   func() kinetics.Integrator { return NewRK4() },
	"rk45":  func() kinetics.Integrator { return NewRK45() },
}

// New returns a fresh integrator by name. Integrators carry scratch state,
// so callers wanting concurrency must construct one per goroutine.
func New(name string) (kinetics.Integrator, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q (have %v)", name, List())
	}
	return mk(), nil
}

// List returns the registered integrator names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
