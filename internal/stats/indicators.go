// Package stats computes quality indicators over objective fronts and
// renders run reports and on-disk artifacts.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Hypervolume2D is the area dominated by a two-objective minimization front
// relative to the reference point. Points not dominating the reference are
// ignored; zero is returned for degenerate inputs.
func Hypervolume2D(front [][]float64, ref []float64) float64 {
	if len(ref) != 2 {
		return 0
	}
	var pts [][]float64
	for _, f := range front {
		if len(f) == 2 && f[0] < ref[0] && f[1] < ref[1] {
			pts = append(pts, f)
		}
	}
	if len(pts) == 0 {
		return 0
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] == pts[j][0] {
			return pts[i][1] < pts[j][1]
		}
		return pts[i][0] < pts[j][0]
	})

	// Keep only the non-dominated staircase: f1 strictly decreasing as f0
	// grows.
	stair := pts[:0]
	bestF1 := math.Inf(1)
	for _, p := range pts {
		if p[1] < bestF1 {
			stair = append(stair, p)
			bestF1 = p[1]
		}
	}

	hv := 0.0
	prevF0 := ref[0]
	for i := len(stair) - 1; i >= 0; i-- {
		hv += (prevF0 - stair[i][0]) * (ref[1] - stair[i][1])
		prevF0 = stair[i][0]
	}
	return hv
}

// Spacing is Schott's spacing metric: the standard deviation of each front
// member's nearest-neighbour L1 distance. Zero means a perfectly even
// spread; it is also returned for fronts of fewer than three points.
func Spacing(front [][]float64) float64 {
	if len(front) < 3 {
		return 0
	}
	dists := make([]float64, len(front))
	for i, a := range front {
		nearest := math.Inf(1)
		for j, b := range front {
			if i == j {
				continue
			}
			d := 0.0
			for k := range a {
				d += math.Abs(a[k] - b[k])
			}
			if d < nearest {
				nearest = d
			}
		}
		dists[i] = nearest
	}
	return stat.StdDev(dists, nil)
}

// IdealPoint is the component-wise minimum of the front.
func IdealPoint(front [][]float64) []float64 {
	if len(front) == 0 {
		return nil
	}
	ideal := append([]float64(nil), front[0]...)
	for _, f := range front[1:] {
		for k, v := range f {
			if v < ideal[k] {
				ideal[k] = v
			}
		}
	}
	return ideal
}

// NadirPoint is the component-wise maximum of the front.
func NadirPoint(front [][]float64) []float64 {
	if len(front) == 0 {
		return nil
	}
	nadir := append([]float64(nil), front[0]...)
	for _, f := range front[1:] {
		for k, v := range f {
			if v > nadir[k] {
				nadir[k] = v
			}
		}
	}
	return nadir
}
