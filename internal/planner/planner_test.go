package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuartshay/route-optimizer/internal/calculator"
	"github.com/stuartshay/route-optimizer/internal/optimizer"
)

// peruCities is the coordinate table used by the dispatch sample data
func peruCities() Coordinates {
	return Coordinates{
		"Lima":      {Latitude: -12.0464, Longitude: -77.0428},
		"Arequipa":  {Latitude: -16.4090, Longitude: -71.5375},
		"Cusco":     {Latitude: -13.5319, Longitude: -71.9675},
		"Trujillo":  {Latitude: -8.1116, Longitude: -79.0291},
		"Piura":     {Latitude: -5.1945, Longitude: -80.6328},
		"Iquitos":   {Latitude: -3.7437, Longitude: -73.2516},
		"Huancayo":  {Latitude: -12.0685, Longitude: -75.2049},
		"Chiclayo":  {Latitude: -6.7714, Longitude: -79.8391},
		"Tacna":     {Latitude: -18.0148, Longitude: -70.2533},
		"Ayacucho":  {Latitude: -13.1631, Longitude: -74.2236},
		"Callao":    {Latitude: -12.0566, Longitude: -77.1181},
		"Ica":       {Latitude: -14.0678, Longitude: -75.7286},
		"Cajamarca": {Latitude: -7.1638, Longitude: -78.5005},
		"Puno":      {Latitude: -15.8422, Longitude: -70.0199},
		"Tumbes":    {Latitude: -3.5669, Longitude: -80.4515},
		"Huánuco":   {Latitude: -9.9306, Longitude: -76.2422},
		"Moquegua":  {Latitude: -17.1934, Longitude: -70.9348},
	}
}

var nextRouteID int64

func route(driverID int64, day int, origin, destination string, status Status) Route {
	nextRouteID++
	start := time.Date(2024, 1, day, 8, 0, 0, 0, time.UTC)
	return Route{
		ID:          nextRouteID,
		DriverID:    driverID,
		Origin:      origin,
		Destination: destination,
		DistanceKM:  100,
		StartDate:   start,
		EndDate:     start.Add(24 * time.Hour),
		Status:      status,
		CargoKG:     1000,
	}
}

func newPlanner() *Planner {
	return New(optimizer.New(optimizer.DefaultOptions()))
}

func TestPlanDriver_OptimizesDay(t *testing.T) {
	routes := []Route{
		route(1, 3, "Lima", "Arequipa", StatusPlanned),
		route(1, 3, "Lima", "Trujillo", StatusInProgress),
		route(1, 3, "Lima", "Ica", StatusPlanned),
	}
	lookup := peruCities()

	plan := newPlanner().PlanDriver(1, routes, lookup)

	require.Contains(t, plan.Days, "2024-01-03")
	day := plan.Days["2024-01-03"]

	assert.Equal(t, "Lima", day.Origin.Name)
	require.Len(t, day.Original, 3)
	assert.Equal(t, "Arequipa", day.Original[0].Name)
	assert.Equal(t, routes[0].ID, day.Original[0].RouteID)

	// As-is follows table order.
	lima, _ := lookup.Lookup("Lima")
	arequipa, _ := lookup.Lookup("Arequipa")
	trujillo, _ := lookup.Lookup("Trujillo")
	ica, _ := lookup.Lookup("Ica")
	expectedBefore := calculator.Distance(lima, arequipa) + calculator.Distance(arequipa, trujillo) + calculator.Distance(trujillo, ica)
	assert.InDelta(t, expectedBefore, day.DistanceBeforeKM, 1e-6)

	exact, err := optimizer.BruteForce(calculator.BuildMatrix([]calculator.Point{lima, arequipa, trujillo, ica}), 0)
	require.NoError(t, err)
	assert.Equal(t, optimizer.AlgorithmBruteForce, day.Algorithm)
	assert.InDelta(t, exact.TotalDistanceKM, day.DistanceAfterKM, 1e-9)

	require.Len(t, day.Optimized, 3)
	for i, idx := range exact.Order {
		assert.Equal(t, day.Original[idx], day.Optimized[i])
	}

	assert.Greater(t, day.SavingsKM, 0.0)
	assert.InDelta(t, day.DistanceBeforeKM-day.DistanceAfterKM, day.SavingsKM, 1e-9)
	assert.InDelta(t, day.SavingsKM/day.DistanceBeforeKM*100, day.SavingsPercent, 1e-9)
	assert.Equal(t, 3000.0, day.CargoKG)
	assert.Equal(t, 300.0, day.StoredDistanceKM)
}

func TestPlanDriver_SkipRules(t *testing.T) {
	lookup := peruCities()

	routes := []Route{
		// Day 1: single route
		route(1, 1, "Lima", "Arequipa", StatusPlanned),
		// Day 2: unknown origin
		route(1, 2, "Atlantis", "Cusco", StatusPlanned),
		route(1, 2, "Lima", "Piura", StatusPlanned),
		// Day 3: one unknown destination, two remain
		route(1, 3, "Lima", "Cusco", StatusPlanned),
		route(1, 3, "Lima", "El Dorado", StatusPlanned),
		route(1, 3, "Lima", "Tacna", StatusPlanned),
		// Day 4: only one resolvable destination
		route(1, 4, "Lima", "Cusco", StatusPlanned),
		route(1, 4, "Lima", "El Dorado", StatusPlanned),
		// Day 5: completed and cancelled routes do not count
		route(1, 5, "Lima", "Cusco", StatusPlanned),
		route(1, 5, "Lima", "Tacna", StatusCompleted),
		route(1, 5, "Lima", "Puno", StatusCancelled),
		// Day 6: other driver's routes do not count
		route(1, 6, "Lima", "Cusco", StatusPlanned),
		route(2, 6, "Lima", "Tacna", StatusPlanned),
	}

	plan := newPlanner().PlanDriver(1, routes, lookup)

	assert.Equal(t, []string{"2024-01-03"}, plan.Dates())

	day := plan.Days["2024-01-03"]
	require.Len(t, day.Original, 2)
	assert.Equal(t, "Cusco", day.Original[0].Name)
	assert.Equal(t, "Tacna", day.Original[1].Name)

	assert.Equal(t, SkipSingleRoute, plan.Skipped["2024-01-01"])
	assert.Equal(t, SkipUnknownOrigin, plan.Skipped["2024-01-02"])
	assert.Equal(t, SkipTooFewDestination, plan.Skipped["2024-01-04"])
	assert.Equal(t, SkipSingleRoute, plan.Skipped["2024-01-05"])
	assert.Equal(t, SkipSingleRoute, plan.Skipped["2024-01-06"])
}

func TestPlanDriver_LargeDayUsesTwoOpt(t *testing.T) {
	destinations := []string{"Piura", "Ica", "Trujillo", "Tacna", "Chiclayo", "Cusco", "Tumbes", "Puno"}
	var routes []Route
	for _, d := range destinations {
		routes = append(routes, route(7, 9, "Lima", d, StatusPlanned))
	}

	plan := newPlanner().PlanDriver(7, routes, peruCities())

	require.Len(t, plan.Days, 1)
	day := plan.Days["2024-01-09"]

	assert.Contains(t, []optimizer.Algorithm{optimizer.AlgorithmTwoOpt, optimizer.AlgorithmInputOrder}, day.Algorithm)
	assert.Len(t, day.Optimized, len(destinations))
	assert.LessOrEqual(t, day.DistanceAfterKM, day.DistanceBeforeKM)
	assert.GreaterOrEqual(t, day.SavingsKM, 0.0)
	assert.GreaterOrEqual(t, day.SavingsPercent, 0.0)
	assert.LessOrEqual(t, day.SavingsPercent, 100.0)

	seen := make(map[int64]bool)
	for _, s := range day.Optimized {
		assert.False(t, seen[s.RouteID], "route %d visited twice", s.RouteID)
		seen[s.RouteID] = true
	}
	assert.Len(t, seen, len(destinations))
}

func TestPlanDriver_KeepsEnteredOrderWhenTwoOptLoses(t *testing.T) {
	lookup := Coordinates{
		"Depot": {Name: "Depot", Latitude: -12.0, Longitude: -75.0},
		"S1":    {Name: "S1", Latitude: -13.2, Longitude: -77.6},
		"S2":    {Name: "S2", Latitude: -14.0, Longitude: -77.0},
		"S3":    {Name: "S3", Latitude: -13.4, Longitude: -74.7},
		"S4":    {Name: "S4", Latitude: -9.0, Longitude: -77.0},
		"S5":    {Name: "S5", Latitude: -10.8, Longitude: -76.3},
		"S6":    {Name: "S6", Latitude: -10.9, Longitude: -73.5},
		"S7":    {Name: "S7", Latitude: -13.2, Longitude: -75.1},
	}
	// Entered in the optimal order. The greedy start S7, S3 leaves 2-Opt in a
	// local minimum roughly 85 km longer.
	entered := []string{"S6", "S3", "S7", "S2", "S1", "S5", "S4"}

	var routes []Route
	points := []calculator.Point{lookup["Depot"]}
	for _, d := range entered {
		routes = append(routes, route(3, 12, "Depot", d, StatusPlanned))
		points = append(points, lookup[d])
	}

	heuristic := optimizer.New(optimizer.DefaultOptions()).Optimize(points, optimizer.AlgorithmAuto)
	require.Equal(t, optimizer.AlgorithmTwoOpt, heuristic.Algorithm)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 0}, heuristic.Order)
	assert.InDelta(t, 1495.58, heuristic.TotalDistanceKM, 0.01)

	plan := newPlanner().PlanDriver(3, routes, lookup)
	require.Len(t, plan.Days, 1)
	day := plan.Days["2024-01-12"]

	assert.Equal(t, optimizer.AlgorithmInputOrder, day.Algorithm)
	assert.Equal(t, day.Original, day.Optimized)
	assert.InDelta(t, 1410.10, day.DistanceBeforeKM, 0.01)
	assert.Equal(t, day.DistanceBeforeKM, day.DistanceAfterKM)
	assert.Zero(t, day.SavingsKM)
	assert.Zero(t, day.SavingsPercent)
	assert.Zero(t, plan.Summary.TotalSavingsKM)
}

func TestPlanDriver_ZeroBeforeDistance(t *testing.T) {
	routes := []Route{
		route(1, 10, "Lima", "Lima", StatusPlanned),
		route(1, 10, "Lima", "Lima", StatusPlanned),
	}

	plan := newPlanner().PlanDriver(1, routes, peruCities())

	require.Contains(t, plan.Days, "2024-01-10")
	day := plan.Days["2024-01-10"]
	assert.Zero(t, day.DistanceBeforeKM)
	assert.Zero(t, day.SavingsPercent)
	assert.Zero(t, plan.Summary.SavingsPercent)
}

func TestPlanDriver_SummaryTotals(t *testing.T) {
	routes := []Route{
		route(3, 11, "Lima", "Cusco", StatusPlanned),
		route(3, 11, "Lima", "Huancayo", StatusPlanned),
		route(3, 11, "Lima", "Ayacucho", StatusPlanned),
		route(3, 12, "Trujillo", "Piura", StatusInProgress),
		route(3, 12, "Trujillo", "Cajamarca", StatusPlanned),
		route(3, 12, "Trujillo", "Tumbes", StatusPlanned),
		route(3, 12, "Trujillo", "Chiclayo", StatusPlanned),
	}

	plan := newPlanner().PlanDriver(3, routes, peruCities())
	require.Len(t, plan.Days, 2)

	var before, after, savings float64
	var stops int
	for _, day := range plan.Days {
		before += day.DistanceBeforeKM
		after += day.DistanceAfterKM
		savings += day.SavingsKM
		stops += len(day.Optimized)
	}

	assert.Equal(t, 2, plan.Summary.Days)
	assert.InDelta(t, before, plan.Summary.TotalBeforeKM, 1e-9)
	assert.InDelta(t, after, plan.Summary.TotalAfterKM, 1e-9)
	assert.InDelta(t, savings, plan.Summary.TotalSavingsKM, 1e-9)
	assert.Equal(t, 7, stops)
	assert.Equal(t, stops, plan.Summary.TotalStops)
	assert.Equal(t, 7000.0, plan.Summary.TotalCargoKG)
	assert.InDelta(t, savings/before*100, plan.Summary.SavingsPercent, 1e-9)
}

func TestPlanDriver_Deterministic(t *testing.T) {
	routes := []Route{
		route(4, 15, "Lima", "Cusco", StatusPlanned),
		route(4, 15, "Lima", "Puno", StatusPlanned),
		route(4, 15, "Lima", "Tacna", StatusPlanned),
		route(4, 15, "Lima", "Moquegua", StatusPlanned),
	}

	p := newPlanner()
	assert.Equal(t, p.PlanDriver(4, routes, peruCities()), p.PlanDriver(4, routes, peruCities()))
}

func TestPlanDriver_NoRoutes(t *testing.T) {
	plan := New(nil).PlanDriver(1, nil, peruCities())

	assert.Empty(t, plan.Days)
	assert.Empty(t, plan.Dates())
	assert.Equal(t, Summary{}, plan.Summary)
}
