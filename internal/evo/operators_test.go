package evo

import (
	"math/rand"
	"testing"

	"moea/internal/problem"
)

var testVars = []problem.Variable{
	{Key: "a", Lower: 0, Upper: 10},
	{Key: "b", Lower: -5, Upper: 5},
	{Key: "c", Lower: 100, Upper: 1500},
}

func inBounds(t *testing.T, row []float64, vars []problem.Variable) {
	t.Helper()
	for i, v := range vars {
		if row[i] < v.Lower || row[i] > v.Upper {
			t.Fatalf("variable %d out of bounds: %v not in [%v, %v]", i, row[i], v.Lower, v.Upper)
		}
	}
}

func TestSBXChildrenStayWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := SBXCrossover{Eta: 10, Prob: 1}

	for i := 0; i < 200; i++ {
		p1 := uniformRow(rng, testVars)
		p2 := uniformRow(rng, testVars)
		c1, c2 := c.Cross(rng, p1, p2, testVars)
		inBounds(t, c1, testVars)
		inBounds(t, c2, testVars)
	}
}

func TestSBXLeavesParentsUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := SBXCrossover{Eta: 10, Prob: 1}

	p1 := []float64{1, -1, 200}
	p2 := []float64{9, 4, 1400}
	orig1 := append([]float64(nil), p1...)
	orig2 := append([]float64(nil), p2...)
	c.Cross(rng, p1, p2, testVars)

	for i := range p1 {
		if p1[i] != orig1[i] || p2[i] != orig2[i] {
			t.Fatal("crossover must not mutate its parents")
		}
	}
}

func TestSBXDeterministicForSeed(t *testing.T) {
	p1 := []float64{1, -1, 200}
	p2 := []float64{9, 4, 1400}
	c := SBXCrossover{Eta: 10, Prob: 1}

	a1, a2 := c.Cross(rand.New(rand.NewSource(42)), p1, p2, testVars)
	b1, b2 := c.Cross(rand.New(rand.NewSource(42)), p1, p2, testVars)
	for i := range a1 {
		if a1[i] != b1[i] || a2[i] != b2[i] {
			t.Fatal("same seed must reproduce the same children")
		}
	}
}

func TestPolynomialMutationWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := PolynomialMutation{Eta: 10, Prob: 1}

	x := [][]float64{uniformRow(rng, testVars), uniformRow(rng, testVars)}
	for i := 0; i < 100; i++ {
		m.Mutate(rng, x, testVars, 1, 10)
		for _, row := range x {
			inBounds(t, row, testVars)
		}
	}
}

func TestPolynomialMutationChangesValues(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := PolynomialMutation{Eta: 10, Prob: 1}

	x := [][]float64{{5, 0, 800}}
	before := append([]float64(nil), x[0]...)
	m.Mutate(rng, x, testVars, 1, 10)

	changed := false
	for i := range before {
		if x[0][i] != before[i] {
			changed = true
		}
	}
	if !changed {
		t.Fatal("mutation with probability 1 left the row untouched")
	}
}

func TestDirectedStepsMoveOneWay(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := PolynomialMutation{Eta: 10, Prob: 1}

	for i := 0; i < 500; i++ {
		up := m.stepUp(rng, 5, 0, 10)
		if up < 5 || up > 10 {
			t.Fatalf("upward step moved to %v", up)
		}
		down := m.stepDown(rng, 5, 0, 10)
		if down > 5 || down < 0 {
			t.Fatalf("downward step moved to %v", down)
		}
	}
}

func TestPerturbDegenerateBounds(t *testing.T) {
	m := PolynomialMutation{Eta: 10, Prob: 1}
	if got := m.perturb(0.3, 7, 7, 7); got != 7 {
		t.Fatalf("degenerate bounds must be a no-op, got %v", got)
	}
}
