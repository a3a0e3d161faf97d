package evo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"moea/internal/problem"
)

var ErrAlgorithmNotFound = errors.New("algorithm not found")

// Spec describes a registered algorithm preset: how to attach its operators
// to a Config for a concrete problem.
type Spec struct {
	Name        string
	Aliases     []string
	Description string
	Configure   func(p problem.Problem, cfg *Config) error
}

var algorithmRegistry = struct {
	mu sync.RWMutex
	m  map[string]Spec
}{
	m: make(map[string]Spec),
}

// Register adds an algorithm spec under its name and aliases.
func Register(spec Spec) error {
	if spec.Name == "" {
		return errors.New("algorithm name is required")
	}
	if spec.Configure == nil {
		return errors.New("algorithm configure function is required")
	}

	algorithmRegistry.mu.Lock()
	defer algorithmRegistry.mu.Unlock()

	for _, name := range append([]string{spec.Name}, spec.Aliases...) {
		key := strings.ToLower(name)
		if _, exists := algorithmRegistry.m[key]; exists {
			return fmt.Errorf("algorithm already registered: %s", name)
		}
		algorithmRegistry.m[key] = spec
	}
	return nil
}

// Lookup resolves an algorithm spec by name or alias, case-insensitively.
func Lookup(name string) (Spec, error) {
	algorithmRegistry.mu.RLock()
	defer algorithmRegistry.mu.RUnlock()

	spec, ok := algorithmRegistry.m[strings.ToLower(name)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrAlgorithmNotFound, name)
	}
	return spec, nil
}

// Names lists registered canonical algorithm names, sorted.
func Names() []string {
	algorithmRegistry.mu.RLock()
	defer algorithmRegistry.mu.RUnlock()

	seen := make(map[string]struct{})
	names := make([]string, 0, len(algorithmRegistry.m))
	for _, spec := range algorithmRegistry.m {
		if _, dup := seen[spec.Name]; dup {
			continue
		}
		seen[spec.Name] = struct{}{}
		names = append(names, spec.Name)
	}
	sort.Strings(names)
	return names
}

var registerOnce sync.Once

// RegisterDefaults installs the built-in algorithm presets. Safe to call
// more than once.
func RegisterDefaults() {
	registerOnce.Do(func() {
		Register(Spec{
			Name:        "nsga2",
			Aliases:     []string{"nsgaii", "nsga-ii"},
			Description: "NSGA-II with random initialization, SBX and polynomial mutation",
			Configure: func(p problem.Problem, cfg *Config) error {
				cfg.Sampling = RandomSampling{}
				cfg.Crossover = SBXCrossover{Eta: 10, Prob: 0.9}
				cfg.Mutation = PolynomialMutation{Eta: 10, Prob: 1 / float64(len(p.Variables()))}
				return nil
			},
		})
		Register(Spec{
			Name:        "dknsga2",
			Aliases:     []string{"nsga2dk", "dk-nsga2"},
			Description: "NSGA-II with domain-knowledge initialization and guided mutation",
			Configure: func(p problem.Problem, cfg *Config) error {
				domains := problem.KnowledgeDomains(p)
				if domains == 0 {
					return fmt.Errorf("problem %s declares no domain knowledge", p.Name())
				}
				cfg.Sampling = DomainKnowledgeSampling{}
				cfg.Crossover = SBXCrossover{Eta: 10, Prob: 0.9}
				cfg.Mutation = DomainKnowledgeMutation{
					Base:     PolynomialMutation{Eta: 10, Prob: 1 / float64(len(p.Variables()))},
					Domains:  domains,
					BiasProb: 0.5,
				}
				return nil
			},
		})
	})
}
