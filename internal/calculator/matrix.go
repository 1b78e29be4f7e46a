package calculator

// DistanceMatrix is a square, symmetric, zero-diagonal table of distances in
// kilometers. Index 0 is the origin; indices 1..n-1 are destinations.
// It is not modified after BuildMatrix returns.
type DistanceMatrix [][]float64

// BuildMatrix computes all pairwise haversine distances for points, where
// points[0] is the origin. Each pair is evaluated once and mirrored so the
// result is exactly symmetric.
func BuildMatrix(points []Point) DistanceMatrix {
	n := len(points)
	m := make(DistanceMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Distance(points[i], points[j])
			m[i][j] = d
			m[j][i] = d
		}
	}

	return m
}

// Size returns the number of points (origin included)
func (m DistanceMatrix) Size() int {
	return len(m)
}

// Destinations returns the number of destination points (origin excluded)
func (m DistanceMatrix) Destinations() int {
	if len(m) == 0 {
		return 0
	}
	return len(m) - 1
}

// PathDistance sums the open path origin → order[0] → order[1] → ...
// where order holds zero-based destination indices.
func (m DistanceMatrix) PathDistance(order []int) float64 {
	var total float64
	prev := 0
	for _, dest := range order {
		node := dest + 1
		total += m[prev][node]
		prev = node
	}
	return total
}

// TourDistance sums consecutive legs of a tour expressed in matrix indices
// (origin included at position 0).
func (m DistanceMatrix) TourDistance(tour []int) float64 {
	var total float64
	for k := 1; k < len(tour); k++ {
		total += m[tour[k-1]][tour[k]]
	}
	return total
}
