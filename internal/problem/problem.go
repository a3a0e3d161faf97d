// Package problem declares the optimization problems solved against the
// EnergyPLAN evaluator: decision variables bound to scenario-file keys,
// objective and constraint definitions, and the batch evaluation contract.
package problem

import (
	"context"
	"fmt"
)

// Bias is per-variable domain knowledge relative to one objective: the
// direction the variable should move to improve that objective, or no
// preference.
type Bias int

const (
	BiasNone Bias = iota
	BiasIncrease
	BiasDecrease
)

// Variable is one decision variable bound to a scenario-file key.
// Knowledge holds one Bias per knowledge domain (objective), and may be nil
// for problems without domain knowledge.
type Variable struct {
	Key       string
	Lower     float64
	Upper     float64
	Knowledge []Bias
}

// Evaluation holds one batch of objective and constraint values, row i
// belonging to candidate i. Constraint values satisfy g(x) <= 0 when the
// candidate is feasible; Constraints is nil for unconstrained problems.
type Evaluation struct {
	Objectives  [][]float64
	Constraints [][]float64
}

// Problem is a batch-evaluated optimization problem. Evaluate receives the
// whole generation at once because the external evaluator is invoked once
// per batch.
type Problem interface {
	Name() string
	Variables() []Variable
	ObjectiveNames() []string
	ConstraintCount() int
	Evaluate(ctx context.Context, x [][]float64) (Evaluation, error)
}

// KnowledgeDomains returns the number of knowledge domains declared by the
// problem's variables (0 when no variable carries domain knowledge).
func KnowledgeDomains(p Problem) int {
	domains := 0
	for _, v := range p.Variables() {
		if len(v.Knowledge) > domains {
			domains = len(v.Knowledge)
		}
	}
	return domains
}

func checkBatch(p Problem, x [][]float64) error {
	vars := p.Variables()
	if len(x) == 0 {
		return fmt.Errorf("%s: empty batch", p.Name())
	}
	for i, row := range x {
		if len(row) != len(vars) {
			return fmt.Errorf("%s: candidate %d has %d variables, want %d", p.Name(), i, len(row), len(vars))
		}
	}
	return nil
}
