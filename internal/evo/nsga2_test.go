package evo

import (
	"context"
	"errors"
	"testing"

	"moea/internal/problem"
)

// schaffer is the classic one-variable two-objective benchmark with the
// Pareto set on [0, 2]. It counts evaluator invocations to assert the
// one-batch-per-generation contract.
type schaffer struct {
	calls       int
	constrained bool
	knowledge   bool
}

func (p *schaffer) Name() string { return "schaffer" }

func (p *schaffer) Variables() []problem.Variable {
	v := problem.Variable{Key: "x", Lower: -10, Upper: 10}
	if p.knowledge {
		v.Knowledge = []problem.Bias{problem.BiasDecrease, problem.BiasIncrease}
	}
	return []problem.Variable{v}
}

func (p *schaffer) ObjectiveNames() []string {
	return []string{"f1", "f2"}
}

func (p *schaffer) ConstraintCount() int {
	if p.constrained {
		return 1
	}
	return 0
}

func (p *schaffer) Evaluate(ctx context.Context, x [][]float64) (problem.Evaluation, error) {
	p.calls++
	eval := problem.Evaluation{Objectives: make([][]float64, len(x))}
	if p.constrained {
		eval.Constraints = make([][]float64, len(x))
	}
	for i, row := range x {
		v := row[0]
		eval.Objectives[i] = []float64{v * v, (v - 2) * (v - 2)}
		if p.constrained {
			// Feasible only for x >= 1.
			eval.Constraints[i] = []float64{1 - v}
		}
	}
	return eval, nil
}

func TestRunConvergesOnSchaffer(t *testing.T) {
	p := &schaffer{}
	res, err := Run(context.Background(), p, Config{
		PopulationSize: 20,
		Generations:    25,
		Seed:           1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if p.calls != 26 {
		t.Fatalf("evaluator invoked %d times, want 26 (initial batch plus one per generation)", p.calls)
	}
	if res.Evaluations != 20*26 {
		t.Fatalf("evaluations = %d, want %d", res.Evaluations, 20*26)
	}
	if len(res.Front) == 0 {
		t.Fatal("empty final front")
	}
	for _, ind := range res.Front {
		if ind.X[0] < -0.5 || ind.X[0] > 2.5 {
			t.Fatalf("front member x = %v far from the Pareto set [0, 2]", ind.X[0])
		}
		if ind.F[0]+ind.F[1] > 4.5 {
			t.Fatalf("front member objectives %v not converged", ind.F)
		}
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	run := func() *Result {
		res, err := Run(context.Background(), &schaffer{}, Config{
			PopulationSize: 12,
			Generations:    8,
			Seed:           99,
		})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}
	a, b := run(), run()

	if len(a.Population) != len(b.Population) {
		t.Fatal("population sizes differ between identical runs")
	}
	for i := range a.Population {
		if a.Population[i].X[0] != b.Population[i].X[0] {
			t.Fatalf("candidate %d differs between identical seeded runs", i)
		}
	}
}

func TestRunPrefersFeasibleFront(t *testing.T) {
	res, err := Run(context.Background(), &schaffer{constrained: true}, Config{
		PopulationSize: 20,
		Generations:    20,
		Seed:           4,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, ind := range res.Front {
		if !ind.Feasible() {
			t.Fatalf("infeasible candidate on the final front: x=%v g=%v", ind.X, ind.G)
		}
	}
}

func TestRunReportsProgress(t *testing.T) {
	var seen []Progress
	_, err := Run(context.Background(), &schaffer{}, Config{
		PopulationSize: 8,
		Generations:    5,
		Seed:           2,
		OnGeneration:   func(p Progress) { seen = append(seen, p) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(seen) != 6 {
		t.Fatalf("got %d progress reports, want 6", len(seen))
	}
	if seen[0].Generation != 0 || seen[5].Generation != 5 {
		t.Fatalf("unexpected generation numbering: first %d last %d", seen[0].Generation, seen[5].Generation)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i].Evaluations <= seen[i-1].Evaluations {
			t.Fatal("evaluation counter must grow monotonically")
		}
	}
	if len(seen[0].Ideal) != 2 {
		t.Fatalf("ideal point has %d components, want 2", len(seen[0].Ideal))
	}
}

func TestRunValidatesConfig(t *testing.T) {
	cases := []Config{
		{PopulationSize: 2, Generations: 5},
		{PopulationSize: 7, Generations: 5},
		{PopulationSize: 8, Generations: 0},
	}
	for i, cfg := range cases {
		if _, err := Run(context.Background(), &schaffer{}, cfg); err == nil {
			t.Fatalf("case %d: expected config validation error", i)
		}
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &schaffer{}
	_, err := Run(ctx, p, Config{PopulationSize: 8, Generations: 50, Seed: 1})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRegisterDefaultsConfigures(t *testing.T) {
	RegisterDefaults()

	spec, err := Lookup("NSGA-II")
	if err != nil {
		t.Fatalf("alias lookup: %v", err)
	}
	var cfg Config
	if err := spec.Configure(&schaffer{}, &cfg); err != nil {
		t.Fatalf("configure nsga2: %v", err)
	}
	if cfg.Mutation == nil || cfg.Sampling == nil {
		t.Fatal("nsga2 preset left operators unset")
	}

	dk, err := Lookup("dknsga2")
	if err != nil {
		t.Fatalf("lookup dknsga2: %v", err)
	}
	if err := dk.Configure(&schaffer{}, &cfg); err == nil {
		t.Fatal("dknsga2 must reject problems without domain knowledge")
	}
	if err := dk.Configure(&schaffer{knowledge: true}, &cfg); err != nil {
		t.Fatalf("configure dknsga2: %v", err)
	}
	if cfg.Sampling.Name() != "domain-knowledge" || cfg.Mutation.Name() != "domain-knowledge" {
		t.Fatalf("dknsga2 preset wired %q/%q operators", cfg.Sampling.Name(), cfg.Mutation.Name())
	}

	if _, err := Lookup("simulated-annealing"); !errors.Is(err, ErrAlgorithmNotFound) {
		t.Fatalf("expected ErrAlgorithmNotFound, got %v", err)
	}
}
