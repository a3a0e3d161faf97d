package problem

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrProblemNotFound = errors.New("problem not found")

// Options carries per-problem construction inputs the CLI can override.
type Options struct {
	// DataFile overrides the problem's default scenario file name.
	DataFile string
	// ScenarioFile points at a YAML scenario table for problems that need
	// one (vdn).
	ScenarioFile string
}

// Spec describes a registered problem: how to build it and which scenario
// file it expects by default.
type Spec struct {
	Name            string
	Aliases         []string
	DefaultDataFile string
	Description     string
	Build           func(h *Harness, opts Options) (Problem, error)
}

var problemRegistry = struct {
	mu sync.RWMutex
	m  map[string]Spec
}{
	m: make(map[string]Spec),
}

// Register adds a problem spec under its name and aliases.
func Register(spec Spec) error {
	if spec.Name == "" {
		return errors.New("problem name is required")
	}
	if spec.Build == nil {
		return errors.New("problem build function is required")
	}

	problemRegistry.mu.Lock()
	defer problemRegistry.mu.Unlock()

	for _, name := range append([]string{spec.Name}, spec.Aliases...) {
		key := strings.ToLower(name)
		if _, exists := problemRegistry.m[key]; exists {
			return fmt.Errorf("problem already registered: %s", name)
		}
		problemRegistry.m[key] = spec
	}
	return nil
}

// Lookup resolves a problem spec by name or alias, case-insensitively.
func Lookup(name string) (Spec, error) {
	problemRegistry.mu.RLock()
	defer problemRegistry.mu.RUnlock()

	spec, ok := problemRegistry.m[strings.ToLower(name)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrProblemNotFound, name)
	}
	return spec, nil
}

// Names lists registered canonical problem names, sorted.
func Names() []string {
	problemRegistry.mu.RLock()
	defer problemRegistry.mu.RUnlock()

	seen := make(map[string]struct{})
	names := make([]string, 0, len(problemRegistry.m))
	for _, spec := range problemRegistry.m {
		if _, dup := seen[spec.Name]; dup {
			continue
		}
		seen[spec.Name] = struct{}{}
		names = append(names, spec.Name)
	}
	sort.Strings(names)
	return names
}
