package planner

import "sort"

// DriverSummary is the per-driver roll-up of the route table, based on the
// stored distance_km and cargo_kg columns.
type DriverSummary struct {
	DriverID        int64
	Routes          int
	TotalDistanceKM float64
	AvgDistanceKM   float64
	TotalCargoKG    float64
	AvgCargoKG      float64
	ByStatus        map[Status]int
}

// SummarizeDrivers aggregates every route, whatever its status, per driver.
// The result is ordered by driver ID.
func SummarizeDrivers(routes []Route) []DriverSummary {
	byDriver := make(map[int64]*DriverSummary)
	for _, r := range routes {
		s, ok := byDriver[r.DriverID]
		if !ok {
			s = &DriverSummary{DriverID: r.DriverID, ByStatus: make(map[Status]int)}
			byDriver[r.DriverID] = s
		}
		s.Routes++
		s.TotalDistanceKM += r.DistanceKM
		s.TotalCargoKG += r.CargoKG
		s.ByStatus[r.Status]++
	}

	summaries := make([]DriverSummary, 0, len(byDriver))
	for _, s := range byDriver {
		s.AvgDistanceKM = s.TotalDistanceKM / float64(s.Routes)
		s.AvgCargoKG = s.TotalCargoKG / float64(s.Routes)
		summaries = append(summaries, *s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].DriverID < summaries[j].DriverID
	})

	return summaries
}
