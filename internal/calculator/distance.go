// Package calculator provides GPS distance calculations using the Haversine formula
// to compute great-circle distances between geographic coordinates, and builds the
// pairwise distance matrices consumed by the route solvers.
package calculator

import (
	"math"
)

const (
	// EarthRadiusKM is the Earth's radius in kilometers
	EarthRadiusKM = 6371.0
)

// Point is a named geographic location in decimal degrees
type Point struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Distance returns the great-circle distance between two points in kilometers
func Distance(a, b Point) float64 {
	return Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// Haversine calculates the great-circle distance between two points
// on the Earth's surface given their latitudes and longitudes in decimal degrees
//
// Formula:
// a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
// c = 2 ⋅ atan2( √a, √(1−a) )
// d = R ⋅ c
//
// where:
// φ is latitude, λ is longitude, R is earth's radius (6371 km)
// Δφ is the difference in latitude, Δλ is the difference in longitude
//
// Coordinates are not range checked.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lon1Rad := degreesToRadians(lon1)
	lat2Rad := degreesToRadians(lat2)
	lon2Rad := degreesToRadians(lon2)

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

// degreesToRadians converts degrees to radians
func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// PathMetrics holds per-leg statistics for an ordered path
type PathMetrics struct {
	TotalDistanceKM float64
	MaxLegKM        float64
	MinLegKM        float64
	AvgLegKM        float64
	Legs            int
}

// CalculatePathMetrics walks origin → points[0] → points[1] → ... and
// reports leg statistics. No return leg is added.
func CalculatePathMetrics(origin Point, points []Point) PathMetrics {
	if len(points) == 0 {
		return PathMetrics{}
	}

	metrics := PathMetrics{
		Legs:     len(points),
		MinLegKM: math.MaxFloat64,
	}

	current := origin
	for _, p := range points {
		leg := Distance(current, p)
		metrics.TotalDistanceKM += leg

		if leg > metrics.MaxLegKM {
			metrics.MaxLegKM = leg
		}
		if leg < metrics.MinLegKM {
			metrics.MinLegKM = leg
		}
		current = p
	}

	metrics.AvgLegKM = metrics.TotalDistanceKM / float64(len(points))

	return metrics
}
