package evo

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"moea/internal/problem"
)

func knowledgeDomains(vars []problem.Variable) int {
	domains := 0
	for _, v := range vars {
		if len(v.Knowledge) > domains {
			domains = len(v.Knowledge)
		}
	}
	return domains
}

// DomainKnowledgeSampling seeds the population from an oversampled pool of
// candidates skewed along each variable's improvement direction, then keeps
// the n most diverse under the Solow-Polasky measure. Each knowledge domain
// contributes one skewed block per beta; the rest of the pool is uniform.
type DomainKnowledgeSampling struct {
	// Betas are the skew strengths; larger pushes harder towards the bound.
	Betas []float64
	// Theta is the Solow-Polasky correlation decay over normalized distance.
	Theta float64
	// Oversample multiplies n to size the candidate pool.
	Oversample int
}

func (s DomainKnowledgeSampling) Name() string { return "domain-knowledge" }

func (s DomainKnowledgeSampling) Sample(rng *rand.Rand, vars []problem.Variable, n int) [][]float64 {
	domains := knowledgeDomains(vars)
	if domains == 0 {
		return RandomSampling{}.Sample(rng, vars, n)
	}

	betas := s.Betas
	if len(betas) == 0 {
		betas = []float64{2, 3, 4}
	}
	theta := s.Theta
	if theta <= 0 {
		theta = 10
	}
	over := s.Oversample
	if over < 2 {
		over = 3
	}

	total := n * over
	pool := make([][]float64, 0, total)
	for i := 0; len(pool) < total; i++ {
		slot := i % (len(betas) + 1)
		if slot == len(betas) {
			pool = append(pool, uniformRow(rng, vars))
			continue
		}
		domain := (i / (len(betas) + 1)) % domains
		pool = append(pool, skewedRow(rng, vars, domain, betas[slot]))
	}
	return selectDiverse(rng, pool, vars, n, theta)
}

// skewedRow samples one candidate biased towards improving the given
// knowledge domain: variables preferring to grow draw from a distribution
// concentrated near the upper bound, shrinking ones near the lower bound.
func skewedRow(rng *rand.Rand, vars []problem.Variable, domain int, beta float64) []float64 {
	row := make([]float64, len(vars))
	pow := 1 / (beta + 1)
	for i, v := range vars {
		u := rng.Float64()
		bias := problem.BiasNone
		if domain < len(v.Knowledge) {
			bias = v.Knowledge[domain]
		}
		switch bias {
		case problem.BiasIncrease:
			u = math.Pow(u, pow)
		case problem.BiasDecrease:
			u = 1 - math.Pow(1-u, pow)
		}
		row[i] = v.Lower + u*(v.Upper-v.Lower)
	}
	return row
}

// selectDiverse greedily grows a subset maximizing the Solow-Polasky
// diversity e' M^-1 e of the Gram matrix M with entries exp(-theta*d). The
// marginal gain of a candidate follows from the block inverse, so each step
// costs one inversion of the current subset plus a scan of the pool.
func selectDiverse(rng *rand.Rand, pool [][]float64, vars []problem.Variable, n int, theta float64) [][]float64 {
	if len(pool) <= n {
		return pool
	}

	norm := make([][]float64, len(pool))
	for i, row := range pool {
		norm[i] = make([]float64, len(row))
		for j, v := range vars {
			if v.Upper > v.Lower {
				norm[i][j] = (row[j] - v.Lower) / (v.Upper - v.Lower)
			}
		}
	}

	selected := []int{rng.Intn(len(pool))}
	used := map[int]bool{selected[0]: true}

	for len(selected) < n {
		k := len(selected)
		gram := mat.NewDense(k, k, nil)
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				gram.Set(i, j, math.Exp(-theta*distance(norm[selected[i]], norm[selected[j]])))
			}
		}
		var inv mat.Dense
		if err := inv.Inverse(gram); err != nil {
			// Numerically singular subset: fall back to any unused candidate.
			selected = append(selected, firstUnused(used, len(pool)))
			used[selected[len(selected)-1]] = true
			continue
		}

		best, bestGain := -1, math.Inf(-1)
		b := make([]float64, k)
		v := make([]float64, k)
		for c := range pool {
			if used[c] {
				continue
			}
			for i, s := range selected {
				b[i] = math.Exp(-theta * distance(norm[c], norm[s]))
			}
			var sv, bb float64
			for i := 0; i < k; i++ {
				v[i] = 0
				for j := 0; j < k; j++ {
					v[i] += inv.At(i, j) * b[j]
				}
				sv += v[i]
				bb += b[i] * v[i]
			}
			denom := 1 - bb
			if denom <= 1e-12 {
				continue
			}
			gain := (1 - sv) * (1 - sv) / denom
			if gain > bestGain {
				best, bestGain = c, gain
			}
		}
		if best < 0 {
			best = firstUnused(used, len(pool))
		}
		selected = append(selected, best)
		used[best] = true
	}

	out := make([][]float64, n)
	for i, idx := range selected {
		out[i] = pool[idx]
	}
	return out
}

func firstUnused(used map[int]bool, n int) int {
	for i := 0; i < n; i++ {
		if !used[i] {
			return i
		}
	}
	return 0
}

func distance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// DomainKnowledgeMutation splits the offspring into one block per knowledge
// domain plus an unguided remainder. Guided blocks take single-sided
// polynomial steps along their domain's improvement direction with a
// probability that decays linearly over the run, so late generations revert
// to standard exploration.
type DomainKnowledgeMutation struct {
	Base     PolynomialMutation
	Domains  int
	BiasProb float64
}

func (m DomainKnowledgeMutation) Name() string { return "domain-knowledge" }

func (m DomainKnowledgeMutation) Mutate(rng *rand.Rand, x [][]float64, vars []problem.Variable, gen, maxGen int) {
	if m.Domains == 0 || len(x) == 0 {
		m.Base.Mutate(rng, x, vars, gen, maxGen)
		return
	}

	decay := 1.0
	if maxGen > 0 {
		decay = 1 - float64(gen)/float64(maxGen)
		if decay < 0 {
			decay = 0
		}
	}
	guidedProb := m.BiasProb * decay

	groups := m.Domains + 1
	blockSize := (len(x) + groups - 1) / groups
	for r, row := range x {
		domain := r / blockSize
		for i, v := range vars {
			if rng.Float64() > m.Base.Prob {
				continue
			}
			bias := problem.BiasNone
			if domain < m.Domains && domain < len(v.Knowledge) {
				bias = v.Knowledge[domain]
			}
			if bias == problem.BiasNone || rng.Float64() >= guidedProb {
				row[i] = m.Base.perturb(rng.Float64(), row[i], v.Lower, v.Upper)
				continue
			}
			if bias == problem.BiasIncrease {
				row[i] = m.Base.stepUp(rng, row[i], v.Lower, v.Upper)
			} else {
				row[i] = m.Base.stepDown(rng, row[i], v.Lower, v.Upper)
			}
		}
	}
}
