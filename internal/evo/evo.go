// Package evo implements the NSGA-II evolutionary engine driving the
// EnergyPLAN evaluator: constrained non-dominated sorting, simulated binary
// crossover, polynomial mutation, and the domain-knowledge variants that
// exploit per-variable improvement directions. Evaluation is strictly
// batched: the engine hands the evaluator one whole generation at a time.
package evo

import (
	"math"

	"moea/internal/problem"
)

// Individual is one candidate with its decision vector and, once evaluated,
// objective and constraint values. Rank and Crowding are populated by the
// environmental selection of the surrounding population.
type Individual struct {
	X []float64
	F []float64
	G []float64

	Rank     int
	Crowding float64
}

// Violation is the aggregate constraint violation, zero when feasible.
func (ind *Individual) Violation() float64 {
	total := 0.0
	for _, g := range ind.G {
		if g > 0 {
			total += g
		}
	}
	return total
}

// Feasible reports whether all constraints hold.
func (ind *Individual) Feasible() bool {
	return ind.Violation() == 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampRows(x [][]float64, vars []problem.Variable) {
	for _, row := range x {
		for i, v := range vars {
			row[i] = clamp(row[i], v.Lower, v.Upper)
		}
	}
}

// ideal returns the component-wise minimum of the objective vectors.
func ideal(pop []Individual) []float64 {
	if len(pop) == 0 {
		return nil
	}
	best := append([]float64(nil), pop[0].F...)
	for _, ind := range pop[1:] {
		for k, f := range ind.F {
			best[k] = math.Min(best[k], f)
		}
	}
	return best
}
