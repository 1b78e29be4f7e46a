package optimizer

import (
	"fmt"

	"github.com/stuartshay/route-optimizer/internal/calculator"
)

// DefaultExactSearchLimit is the largest destination count BruteForce accepts
// by default. 8 destinations means 40320 permutations; each extra stop
// multiplies the work, so this is a tuning knob rather than a hard law.
const DefaultExactSearchLimit = 8

// BruteForce enumerates every permutation of the destinations in lexicographic
// order and keeps the first one with the minimum open-path distance.
// It fails fast with ErrExactSearchTooLarge when the destination count is
// above limit; a limit <= 0 uses DefaultExactSearchLimit.
func BruteForce(m calculator.DistanceMatrix, limit int) (Result, error) {
	if limit <= 0 {
		limit = DefaultExactSearchLimit
	}

	destinations := m.Destinations()
	if destinations > limit {
		return Result{}, fmt.Errorf("brute force with %d destinations (limit %d): %w", destinations, limit, ErrExactSearchTooLarge)
	}

	if res, ok := trivialResult(destinations, func() float64 { return m[0][1] }, AlgorithmBruteForce); ok {
		return res, nil
	}

	perm := make([]int, destinations)
	for i := range perm {
		perm[i] = i
	}

	best := make([]int, destinations)
	copy(best, perm)
	bestDist := m.PathDistance(perm)

	for nextPermutation(perm) {
		if d := m.PathDistance(perm); d < bestDist {
			bestDist = d
			copy(best, perm)
		}
	}

	return Result{
		Order:           best,
		TotalDistanceKM: bestDist,
		Algorithm:       AlgorithmBruteForce,
	}, nil
}

// nextPermutation rearranges p into its lexicographic successor and reports
// whether one existed.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}

	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]

	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}
