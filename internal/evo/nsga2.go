package evo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"moea/internal/problem"
)

// Config parameterizes one NSGA-II run. Zero-valued operator fields are
// filled with the conventional defaults for the problem at hand.
type Config struct {
	PopulationSize int
	Generations    int
	Seed           int64

	Sampling  Sampling
	Crossover SBXCrossover
	Mutation  Mutation

	// OnGeneration, when set, receives progress after every environmental
	// selection, the initial population included as generation zero.
	OnGeneration func(Progress)
}

// Progress is one generation's worth of diagnostics. FrontObjectives are
// the objective vectors of the current first front, for indicator
// computation downstream.
type Progress struct {
	Generation      int
	Evaluations     int
	FrontSize       int
	FeasibleCount   int
	Ideal           []float64
	FrontObjectives [][]float64
}

// Result carries the final population and its first front.
type Result struct {
	Population  []Individual
	Front       []Individual
	Evaluations int
	Generations int
}

func (cfg *Config) normalize(p problem.Problem) error {
	if cfg.PopulationSize < 4 {
		return fmt.Errorf("population size %d too small, need at least 4", cfg.PopulationSize)
	}
	if cfg.PopulationSize%2 != 0 {
		return fmt.Errorf("population size %d must be even", cfg.PopulationSize)
	}
	if cfg.Generations < 1 {
		return fmt.Errorf("generations %d must be positive", cfg.Generations)
	}
	if cfg.Sampling == nil {
		cfg.Sampling = RandomSampling{}
	}
	if cfg.Crossover.Eta == 0 {
		cfg.Crossover.Eta = 10
	}
	if cfg.Crossover.Prob == 0 {
		cfg.Crossover.Prob = 0.9
	}
	if cfg.Mutation == nil {
		cfg.Mutation = PolynomialMutation{Eta: 10, Prob: 1 / float64(len(p.Variables()))}
	}
	return nil
}

// Run executes NSGA-II against the problem. The evaluator is called exactly
// once per generation with the whole offspring batch, plus once for the
// initial population.
func Run(ctx context.Context, p problem.Problem, cfg Config) (*Result, error) {
	if p == nil {
		return nil, errors.New("problem is required")
	}
	if err := cfg.normalize(p); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	vars := p.Variables()
	n := cfg.PopulationSize

	x := cfg.Sampling.Sample(rng, vars, n)
	clampRows(x, vars)
	pop, err := evaluateBatch(ctx, p, x)
	if err != nil {
		return nil, fmt.Errorf("generation 0: %w", err)
	}
	evaluations := n

	fronts := nonDominatedSort(pop)
	for _, front := range fronts {
		crowdingDistance(pop, front)
	}
	report(cfg, pop, 0, evaluations)

	for gen := 1; gen <= cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}

		offspring := make([][]float64, 0, n)
		for len(offspring) < n {
			a := tournament(rng, pop)
			b := tournament(rng, pop)
			c1, c2 := cfg.Crossover.Cross(rng, pop[a].X, pop[b].X, vars)
			offspring = append(offspring, c1)
			if len(offspring) < n {
				offspring = append(offspring, c2)
			}
		}
		cfg.Mutation.Mutate(rng, offspring, vars, gen, cfg.Generations)
		clampRows(offspring, vars)

		off, err := evaluateBatch(ctx, p, offspring)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}
		evaluations += len(offspring)

		combined := make([]Individual, 0, len(pop)+len(off))
		combined = append(combined, pop...)
		combined = append(combined, off...)
		pop = selectNext(combined, n)
		report(cfg, pop, gen, evaluations)
	}

	return &Result{
		Population:  pop,
		Front:       firstFront(pop),
		Evaluations: evaluations,
		Generations: cfg.Generations,
	}, nil
}

func evaluateBatch(ctx context.Context, p problem.Problem, x [][]float64) ([]Individual, error) {
	eval, err := p.Evaluate(ctx, x)
	if err != nil {
		return nil, err
	}
	if len(eval.Objectives) != len(x) {
		return nil, fmt.Errorf("evaluator returned %d objective rows for %d candidates", len(eval.Objectives), len(x))
	}
	if eval.Constraints != nil && len(eval.Constraints) != len(x) {
		return nil, fmt.Errorf("evaluator returned %d constraint rows for %d candidates", len(eval.Constraints), len(x))
	}

	pop := make([]Individual, len(x))
	for i := range x {
		pop[i] = Individual{X: x[i], F: eval.Objectives[i]}
		if eval.Constraints != nil {
			pop[i].G = eval.Constraints[i]
		}
	}
	return pop, nil
}

func firstFront(pop []Individual) []Individual {
	var front []Individual
	for _, ind := range pop {
		if ind.Rank == 0 {
			front = append(front, ind)
		}
	}
	return front
}

func report(cfg Config, pop []Individual, gen, evaluations int) {
	if cfg.OnGeneration == nil {
		return
	}
	feasible := 0
	for i := range pop {
		if pop[i].Feasible() {
			feasible++
		}
	}
	front := firstFront(pop)
	objectives := make([][]float64, len(front))
	for i, ind := range front {
		objectives[i] = append([]float64(nil), ind.F...)
	}
	cfg.OnGeneration(Progress{
		Generation:      gen,
		Evaluations:     evaluations,
		FrontSize:       len(front),
		FeasibleCount:   feasible,
		Ideal:           ideal(pop),
		FrontObjectives: objectives,
	})
}
