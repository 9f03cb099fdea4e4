package integrators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/ltilab/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"euler": func() dynamo.Integrator { return NewEuler() },
	"rk4":   func() dynamo.Integrator { return NewRK4() },
	"rk45":  func() dynamo.Integrator { return NewRK45() },
}

// ByName returns a fresh integrator. Names are case-insensitive.
func ByName(name string) (dynamo.Integrator, error) {
	fn, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsAdaptive reports whether the named integrator controls its own step.
func IsAdaptive(name string) bool {
	integ, err := ByName(name)
	if err != nil {
		return false
	}
	_, ok := integ.(dynamo.AdaptiveIntegrator)
	return ok
}
