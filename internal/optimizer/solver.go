// Package optimizer orders the destinations of a single-origin, open-path route
// so that total travel distance is minimized. Three interchangeable solvers are
// provided (Nearest-Neighbor, Brute-Force and 2-Opt) together with an Optimizer
// facade that selects one by name or by problem size.
//
// All solvers consume a calculator.DistanceMatrix in which index 0 is the
// origin and return destination indices that are zero-based into the original
// destination list. Solvers are pure and deterministic.
package optimizer

import (
	"errors"
	"strings"
)

// Algorithm names a route solver
type Algorithm string

// Supported solver names. AlgorithmAuto lets the facade pick by problem size.
const (
	AlgorithmAuto            Algorithm = ""
	AlgorithmNearestNeighbor Algorithm = "nearest_neighbor"
	AlgorithmBruteForce      Algorithm = "brute_force"
	AlgorithmTwoOpt          Algorithm = "two_opt"

	// AlgorithmInputOrder labels results where the caller kept the entered
	// order because no solver beat it. No solver returns it.
	AlgorithmInputOrder Algorithm = "input_order"
)

// ErrExactSearchTooLarge is returned by BruteForce when the destination count
// exceeds the configured exact search limit.
var ErrExactSearchTooLarge = errors.New("input too large for exact search")

// Result is a visit order plus its total open-path distance
type Result struct {
	// Order is a permutation of 0..n-1 over the destinations; the origin is implicit.
	Order           []int
	TotalDistanceKM float64
	Algorithm       Algorithm
}

// ParseAlgorithm normalizes user supplied solver names. Empty input maps to
// AlgorithmAuto; anything unrecognized is returned as-is and later resolved to
// Nearest-Neighbor by the facade.
func ParseAlgorithm(name string) Algorithm {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	switch normalized {
	case "", "auto":
		return AlgorithmAuto
	case "nearest_neighbor", "nearest_neighbour", "nn", "greedy":
		return AlgorithmNearestNeighbor
	case "brute_force", "bruteforce", "exact":
		return AlgorithmBruteForce
	case "two_opt", "2opt", "2_opt", "twoopt":
		return AlgorithmTwoOpt
	default:
		return Algorithm(normalized)
	}
}

// trivialResult handles the edge cases shared by every solver: no destinations
// and a single destination. ok is false when the caller must run the search.
func trivialResult(destinations int, firstLeg func() float64, algorithm Algorithm) (Result, bool) {
	switch destinations {
	case 0:
		return Result{Order: []int{}, TotalDistanceKM: 0, Algorithm: algorithm}, true
	case 1:
		return Result{Order: []int{0}, TotalDistanceKM: firstLeg(), Algorithm: algorithm}, true
	default:
		return Result{}, false
	}
}
