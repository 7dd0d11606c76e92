package models

import (
	"fmt"
	"sort"

	"github.com/kochlab/phosphosim/internal/kinetics"
)

var registry = map[string]func() kinetics.System{
	"mm":         func() kinetics.System { return NewMichaelisMenten() },
	"activation": func() kinetics.System { return NewActivation() },
	"allosteric": func() kinetics.System { return NewAllosteric() },
	"structural": func() kinetics.System { return NewStructural() },
	"final":      func() kinetics.System { return NewFinal() },
	"rsk2":       func() kinetics.System { return NewRSK2() },
}

// New returns a fresh instance of the named model variant.
func New(name string) (kinetics.System, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s (available: %v)", name, List())
	}
	return fn(), nil
}

// List returns the registered model names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
