package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []Point {
	return []Point{
		{Name: "Lima", Latitude: -12.0464, Longitude: -77.0428},
		{Name: "Arequipa", Latitude: -16.4090, Longitude: -71.5375},
		{Name: "Cusco", Latitude: -13.5319, Longitude: -71.9675},
		{Name: "Trujillo", Latitude: -8.1116, Longitude: -79.0291},
	}
}

func TestBuildMatrix(t *testing.T) {
	points := samplePoints()
	m := BuildMatrix(points)

	require.Equal(t, len(points), m.Size())
	assert.Equal(t, len(points)-1, m.Destinations())

	for i := range m {
		require.Len(t, m[i], len(points))
		assert.Zero(t, m[i][i], "diagonal must be zero")
		for j := range m[i] {
			assert.Equal(t, m[i][j], m[j][i], "matrix must be symmetric at (%d,%d)", i, j)
			assert.GreaterOrEqual(t, m[i][j], 0.0)
			assert.Equal(t, Distance(points[i], points[j]) == 0, m[i][j] == 0)
		}
	}
}

func TestBuildMatrix_OriginOnly(t *testing.T) {
	m := BuildMatrix([]Point{{Name: "depot"}})

	require.Equal(t, 1, m.Size())
	assert.Equal(t, 0, m.Destinations())
	assert.Zero(t, m.PathDistance(nil))
}

func TestPathDistance(t *testing.T) {
	m := BuildMatrix(samplePoints())

	t.Run("empty order", func(t *testing.T) {
		assert.Zero(t, m.PathDistance([]int{}))
	})

	t.Run("single destination uses origin leg", func(t *testing.T) {
		assert.Equal(t, m[0][2], m.PathDistance([]int{1}))
	})

	t.Run("open path without return leg", func(t *testing.T) {
		expected := m[0][3] + m[3][1] + m[1][2]
		assert.InDelta(t, expected, m.PathDistance([]int{2, 0, 1}), 1e-9)
	})

	t.Run("tour distance matches path distance", func(t *testing.T) {
		assert.InDelta(t, m.PathDistance([]int{2, 0, 1}), m.TourDistance([]int{0, 3, 1, 2}), 1e-9)
	})
}

func BenchmarkBuildMatrix(b *testing.B) {
	points := make([]Point, 20)
	for i := range points {
		points[i] = Point{Latitude: -12 + float64(i)*0.1, Longitude: -77 + float64(i)*0.1}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildMatrix(points)
	}
}
