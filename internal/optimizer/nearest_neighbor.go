package optimizer

import (
	"math"

	"github.com/stuartshay/route-optimizer/internal/calculator"
)

// NearestNeighbor builds a tour greedily: from the origin it repeatedly moves to
// the closest unvisited destination. Candidates are scanned in index order with
// a strict comparison, so the lowest index wins ties.
func NearestNeighbor(m calculator.DistanceMatrix) Result {
	if res, ok := trivialResult(m.Destinations(), func() float64 { return m[0][1] }, AlgorithmNearestNeighbor); ok {
		return res
	}

	tour := nearestNeighborTour(m)

	order := make([]int, 0, len(tour)-1)
	for _, node := range tour[1:] {
		order = append(order, node-1)
	}

	return Result{
		Order:           order,
		TotalDistanceKM: m.TourDistance(tour),
		Algorithm:       AlgorithmNearestNeighbor,
	}
}

// nearestNeighborTour returns the greedy tour in matrix indices with the
// origin at position 0.
func nearestNeighborTour(m calculator.DistanceMatrix) []int {
	n := m.Size()
	visited := make([]bool, n)
	visited[0] = true

	tour := make([]int, 1, n)
	current := 0

	for step := 1; step < n; step++ {
		best := -1
		bestDist := math.Inf(1)
		for candidate := 1; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}
			if m[current][candidate] < bestDist {
				bestDist = m[current][candidate]
				best = candidate
			}
		}

		// Only reachable with NaN distances; fall back to the first unvisited node.
		if best == -1 {
			for candidate := 1; candidate < n; candidate++ {
				if !visited[candidate] {
					best = candidate
					break
				}
			}
		}

		visited[best] = true
		tour = append(tour, best)
		current = best
	}

	return tour
}
