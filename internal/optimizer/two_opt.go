package optimizer

import (
	"context"

	"github.com/stuartshay/route-optimizer/internal/calculator"
)

// DefaultTwoOptPassFactor scales the pass cap of TwoOpt: at most
// n² * factor passes run, where n is the number of points.
const DefaultTwoOptPassFactor = 4

// TwoOpt improves the Nearest-Neighbor tour by segment reversal.
//
// The origin stays fixed at position 0. Each pass scans pairs (i, j) with
// 1 <= i and j >= i+2 and reverses tour[i:j]. The first reversal that makes
// the whole path strictly shorter is kept and the scan restarts
// (first-improvement). Equal or worse reversals are undone. The search ends
// after a pass with no accepted reversal, or after passFactor * n² passes;
// passFactor <= 0 uses DefaultTwoOptPassFactor.
func TwoOpt(m calculator.DistanceMatrix, passFactor int) Result {
	res, _ := TwoOptContext(context.Background(), m, passFactor)
	return res
}

// TwoOptContext is TwoOpt with cancellation checked before every pass. When
// ctx ends it returns the best tour found so far together with ctx.Err().
func TwoOptContext(ctx context.Context, m calculator.DistanceMatrix, passFactor int) (Result, error) {
	if res, ok := trivialResult(m.Destinations(), func() float64 { return m[0][1] }, AlgorithmTwoOpt); ok {
		return res, nil
	}
	if passFactor <= 0 {
		passFactor = DefaultTwoOptPassFactor
	}

	tour := nearestNeighborTour(m)
	n := len(tour)
	best := m.TourDistance(tour)
	maxPasses := n * n * passFactor

	var err error
	for pass := 0; pass < maxPasses; pass++ {
		if err = ctx.Err(); err != nil {
			break
		}
		improved := false

	scan:
		for i := 1; i < n-1; i++ {
			for j := i + 2; j <= n; j++ {
				reverse(tour, i, j)
				if d := m.TourDistance(tour); d < best {
					best = d
					improved = true
					break scan
				}
				reverse(tour, i, j)
			}
		}

		if !improved {
			break
		}
	}

	order := make([]int, 0, n-1)
	for _, node := range tour[1:] {
		order = append(order, node-1)
	}

	return Result{
		Order:           order,
		TotalDistanceKM: best,
		Algorithm:       AlgorithmTwoOpt,
	}, err
}

// reverse flips tour[i:j] in place
func reverse(tour []int, i, j int) {
	for l, r := i, j-1; l < r; l, r = l+1, r-1 {
		tour[l], tour[r] = tour[r], tour[l]
	}
}
