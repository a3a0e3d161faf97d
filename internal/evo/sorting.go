package evo

import (
	"math"
	"math/rand"
	"sort"
)

// dominates applies the constrained-domination rule: any less-violating
// candidate beats a more-violating one, and Pareto dominance on the
// objectives decides between candidates of equal violation.
func dominates(a, b *Individual) bool {
	va, vb := a.Violation(), b.Violation()
	if va != vb {
		return va < vb
	}
	better := false
	for i := range a.F {
		if a.F[i] > b.F[i] {
			return false
		}
		if a.F[i] < b.F[i] {
			better = true
		}
	}
	return better
}

// nonDominatedSort partitions pop into fronts of mutually non-dominated
// candidates and writes each individual's Rank.
func nonDominatedSort(pop []Individual) [][]int {
	n := len(pop)
	dominated := make([][]int, n)
	remaining := make([]int, n)

	var current []int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dominates(&pop[i], &pop[j]) {
				dominated[i] = append(dominated[i], j)
			} else if dominates(&pop[j], &pop[i]) {
				remaining[i]++
			}
		}
		if remaining[i] == 0 {
			pop[i].Rank = 0
			current = append(current, i)
		}
	}

	var fronts [][]int
	for len(current) > 0 {
		fronts = append(fronts, current)
		var next []int
		for _, i := range current {
			for _, j := range dominated[i] {
				remaining[j]--
				if remaining[j] == 0 {
					pop[j].Rank = len(fronts)
					next = append(next, j)
				}
			}
		}
		current = next
	}
	return fronts
}

// crowdingDistance writes the crowding of each front member; boundary
// candidates get infinite crowding so they always survive truncation.
func crowdingDistance(pop []Individual, front []int) {
	for _, i := range front {
		pop[i].Crowding = 0
	}
	if len(front) <= 2 {
		for _, i := range front {
			pop[i].Crowding = math.Inf(1)
		}
		return
	}

	idx := append([]int(nil), front...)
	for k := range pop[front[0]].F {
		sort.Slice(idx, func(a, b int) bool {
			return pop[idx[a]].F[k] < pop[idx[b]].F[k]
		})
		lo := pop[idx[0]].F[k]
		hi := pop[idx[len(idx)-1]].F[k]
		pop[idx[0]].Crowding = math.Inf(1)
		pop[idx[len(idx)-1]].Crowding = math.Inf(1)
		if hi == lo {
			continue
		}
		for a := 1; a < len(idx)-1; a++ {
			pop[idx[a]].Crowding += (pop[idx[a+1]].F[k] - pop[idx[a-1]].F[k]) / (hi - lo)
		}
	}
}

// tournament runs one binary tournament: lower rank wins, larger crowding
// breaks ties.
func tournament(rng *rand.Rand, pop []Individual) int {
	i := rng.Intn(len(pop))
	j := rng.Intn(len(pop))
	switch {
	case pop[i].Rank < pop[j].Rank:
		return i
	case pop[j].Rank < pop[i].Rank:
		return j
	case pop[j].Crowding > pop[i].Crowding:
		return j
	default:
		return i
	}
}

// selectNext performs environmental selection: whole fronts are admitted
// until one overflows, which is truncated by descending crowding.
func selectNext(combined []Individual, n int) []Individual {
	fronts := nonDominatedSort(combined)
	next := make([]Individual, 0, n)
	for _, front := range fronts {
		crowdingDistance(combined, front)
		if len(next)+len(front) <= n {
			for _, i := range front {
				next = append(next, combined[i])
			}
			continue
		}
		sort.SliceStable(front, func(a, b int) bool {
			return combined[front[a]].Crowding > combined[front[b]].Crowding
		})
		for _, i := range front[:n-len(next)] {
			next = append(next, combined[i])
		}
		break
	}
	return next
}
