package evo

import (
	"math"
	"math/rand"

	"moea/internal/problem"
)

// Mutation perturbs a whole offspring batch in place. Implementations may
// use the generation counter to schedule their behaviour over the run.
type Mutation interface {
	Name() string
	Mutate(rng *rand.Rand, x [][]float64, vars []problem.Variable, gen, maxGen int)
}

// SBXCrossover is simulated binary crossover on bounded real variables.
type SBXCrossover struct {
	Eta  float64
	Prob float64
}

// Cross recombines two parents into two children. Each variable crosses with
// probability one half; the rest is copied through.
func (c SBXCrossover) Cross(rng *rand.Rand, p1, p2 []float64, vars []problem.Variable) ([]float64, []float64) {
	c1 := append([]float64(nil), p1...)
	c2 := append([]float64(nil), p2...)
	if rng.Float64() > c.Prob {
		return c1, c2
	}

	for i, v := range vars {
		if rng.Float64() > 0.5 {
			continue
		}
		x1, x2 := p1[i], p2[i]
		if math.Abs(x1-x2) < 1e-14 || v.Upper == v.Lower {
			continue
		}
		if x1 > x2 {
			x1, x2 = x2, x1
		}

		u := rng.Float64()
		pow := 1 / (c.Eta + 1)

		beta := 1 + 2*(x1-v.Lower)/(x2-x1)
		alpha := 2 - math.Pow(beta, -(c.Eta+1))
		var betaq float64
		if u <= 1/alpha {
			betaq = math.Pow(u*alpha, pow)
		} else {
			betaq = math.Pow(1/(2-u*alpha), pow)
		}
		ch1 := 0.5 * ((x1 + x2) - betaq*(x2-x1))

		beta = 1 + 2*(v.Upper-x2)/(x2-x1)
		alpha = 2 - math.Pow(beta, -(c.Eta+1))
		if u <= 1/alpha {
			betaq = math.Pow(u*alpha, pow)
		} else {
			betaq = math.Pow(1/(2-u*alpha), pow)
		}
		ch2 := 0.5 * ((x1 + x2) + betaq*(x2-x1))

		ch1 = clamp(ch1, v.Lower, v.Upper)
		ch2 = clamp(ch2, v.Lower, v.Upper)
		if rng.Float64() < 0.5 {
			ch1, ch2 = ch2, ch1
		}
		c1[i], c2[i] = ch1, ch2
	}
	return c1, c2
}

// PolynomialMutation is bounded polynomial mutation. Prob is the
// per-variable mutation probability, conventionally 1/n.
type PolynomialMutation struct {
	Eta  float64
	Prob float64
}

func (m PolynomialMutation) Name() string { return "polynomial" }

func (m PolynomialMutation) Mutate(rng *rand.Rand, x [][]float64, vars []problem.Variable, gen, maxGen int) {
	for _, row := range x {
		for i, v := range vars {
			if rng.Float64() > m.Prob {
				continue
			}
			row[i] = m.perturb(rng.Float64(), row[i], v.Lower, v.Upper)
		}
	}
}

// perturb maps u in [0,1) onto a polynomial step around x: u below one half
// moves down, above moves up.
func (m PolynomialMutation) perturb(u, x, lo, hi float64) float64 {
	if hi == lo {
		return x
	}
	d1 := (x - lo) / (hi - lo)
	d2 := (hi - x) / (hi - lo)
	pow := 1 / (m.Eta + 1)

	var delta float64
	if u < 0.5 {
		val := 2*u + (1-2*u)*math.Pow(1-d1, m.Eta+1)
		delta = math.Pow(val, pow) - 1
	} else {
		val := 2*(1-u) + 2*(u-0.5)*math.Pow(1-d2, m.Eta+1)
		delta = 1 - math.Pow(val, pow)
	}
	return clamp(x+delta*(hi-lo), lo, hi)
}

// stepUp and stepDown restrict the perturbation to one side by confining u
// to the corresponding half of its range.
func (m PolynomialMutation) stepUp(rng *rand.Rand, x, lo, hi float64) float64 {
	return m.perturb(0.5+0.5*rng.Float64(), x, lo, hi)
}

func (m PolynomialMutation) stepDown(rng *rand.Rand, x, lo, hi float64) float64 {
	return m.perturb(0.5*rng.Float64(), x, lo, hi)
}
