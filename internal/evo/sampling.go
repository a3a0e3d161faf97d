package evo

import (
	"math/rand"

	"moea/internal/problem"
)

// Sampling produces an initial population within the variable bounds.
type Sampling interface {
	Name() string
	Sample(rng *rand.Rand, vars []problem.Variable, n int) [][]float64
}

// RandomSampling draws uniformly within the bounds.
type RandomSampling struct{}

func (RandomSampling) Name() string { return "random" }

func (RandomSampling) Sample(rng *rand.Rand, vars []problem.Variable, n int) [][]float64 {
	x := make([][]float64, n)
	for i := range x {
		x[i] = uniformRow(rng, vars)
	}
	return x
}

func uniformRow(rng *rand.Rand, vars []problem.Variable) []float64 {
	row := make([]float64, len(vars))
	for i, v := range vars {
		row[i] = v.Lower + rng.Float64()*(v.Upper-v.Lower)
	}
	return row
}
