package evo

import (
	"math"
	"math/rand"
	"testing"
)

func TestDominatesParetoRule(t *testing.T) {
	a := Individual{F: []float64{1, 1}}
	b := Individual{F: []float64{2, 2}}
	c := Individual{F: []float64{0.5, 3}}

	if !dominates(&a, &b) {
		t.Fatal("(1,1) must dominate (2,2)")
	}
	if dominates(&b, &a) {
		t.Fatal("(2,2) must not dominate (1,1)")
	}
	if dominates(&a, &c) || dominates(&c, &a) {
		t.Fatal("(1,1) and (0.5,3) are mutually non-dominated")
	}
	if dominates(&a, &a) {
		t.Fatal("an individual must not dominate itself")
	}
}

func TestDominatesFeasibilityFirst(t *testing.T) {
	feasible := Individual{F: []float64{100, 100}, G: []float64{-1}}
	violating := Individual{F: []float64{1, 1}, G: []float64{2}}
	worse := Individual{F: []float64{1, 1}, G: []float64{5}}

	if !dominates(&feasible, &violating) {
		t.Fatal("a feasible candidate must dominate any infeasible one")
	}
	if dominates(&violating, &feasible) {
		t.Fatal("an infeasible candidate must not dominate a feasible one")
	}
	if !dominates(&violating, &worse) {
		t.Fatal("less violation must dominate more violation")
	}
}

func TestNonDominatedSortRanks(t *testing.T) {
	pop := []Individual{
		{F: []float64{1, 4}},
		{F: []float64{4, 1}},
		{F: []float64{2, 5}},
		{F: []float64{5, 5}},
	}
	fronts := nonDominatedSort(pop)

	if len(fronts) != 3 {
		t.Fatalf("expected 3 fronts, got %d: %v", len(fronts), fronts)
	}
	if pop[0].Rank != 0 || pop[1].Rank != 0 {
		t.Fatalf("first front misranked: %+v", pop)
	}
	if pop[2].Rank != 1 {
		t.Fatalf("(2,5) should be rank 1, got %d", pop[2].Rank)
	}
	if pop[3].Rank != 2 {
		t.Fatalf("(5,5) should be rank 2, got %d", pop[3].Rank)
	}
}

func TestCrowdingBoundariesAreInfinite(t *testing.T) {
	pop := []Individual{
		{F: []float64{0, 3}},
		{F: []float64{1, 2}},
		{F: []float64{2, 1}},
		{F: []float64{3, 0}},
	}
	front := []int{0, 1, 2, 3}
	crowdingDistance(pop, front)

	if !math.IsInf(pop[0].Crowding, 1) || !math.IsInf(pop[3].Crowding, 1) {
		t.Fatalf("boundary candidates must have infinite crowding: %+v", pop)
	}
	if math.IsInf(pop[1].Crowding, 1) || pop[1].Crowding <= 0 {
		t.Fatalf("interior crowding must be positive and finite: %v", pop[1].Crowding)
	}
}

func TestSelectNextKeepsBoundariesUnderTruncation(t *testing.T) {
	// One non-dominated front of five, truncated to four: the extremes
	// survive, the most crowded interior point drops.
	pop := []Individual{
		{F: []float64{0, 4}},
		{F: []float64{1, 3}},
		{F: []float64{1.1, 2.9}},
		{F: []float64{2, 2}},
		{F: []float64{4, 0}},
	}
	next := selectNext(pop, 4)

	if len(next) != 4 {
		t.Fatalf("expected 4 survivors, got %d", len(next))
	}
	hasExtreme := func(f0 float64) bool {
		for _, ind := range next {
			if ind.F[0] == f0 {
				return true
			}
		}
		return false
	}
	if !hasExtreme(0) || !hasExtreme(4) {
		t.Fatalf("boundary candidates must survive truncation: %+v", next)
	}
}

func TestTournamentPrefersLowerRank(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop := []Individual{
		{Rank: 0, Crowding: 1},
		{Rank: 3, Crowding: math.Inf(1)},
	}
	for i := 0; i < 50; i++ {
		winner := tournament(rng, pop)
		if pop[winner].Rank == 3 && winner != 1 {
			t.Fatal("unexpected winner index")
		}
		// When both entrants differ in rank the lower rank must win; draws
		// of the same index are legitimate.
	}
	wins := 0
	for i := 0; i < 200; i++ {
		if tournament(rng, pop) == 0 {
			wins++
		}
	}
	if wins < 120 {
		t.Fatalf("rank-0 candidate won only %d of 200 tournaments", wins)
	}
}
