package planner

import (
	"sort"

	"github.com/stuartshay/route-optimizer/internal/calculator"
	"github.com/stuartshay/route-optimizer/internal/optimizer"
)

// Reasons recorded in Plan.Skipped
const (
	SkipSingleRoute       = "single route"
	SkipUnknownOrigin     = "origin coordinates unknown"
	SkipTooFewDestination = "fewer than 2 resolvable destinations"
)

// DailyOptimization is one calendar day's before/after comparison
type DailyOptimization struct {
	Date   string
	Origin calculator.Point
	// Original keeps table order; Optimized is the same stops in visit order.
	Original         []Stop
	Optimized        []Stop
	DistanceBeforeKM float64
	DistanceAfterKM  float64
	SavingsKM        float64
	SavingsPercent   float64
	Algorithm        optimizer.Algorithm
	// StoredDistanceKM sums the distance_km column of the day's routes; it can
	// drift from the recomputed haversine figures when entered by hand.
	StoredDistanceKM float64
	CargoKG          float64
}

// Summary aggregates all optimized days of a plan
type Summary struct {
	Days           int
	TotalBeforeKM  float64
	TotalAfterKM   float64
	TotalSavingsKM float64
	SavingsPercent float64
	TotalStops     int
	TotalCargoKG   float64
}

// Plan is the planner output for one driver
type Plan struct {
	DriverID int64
	// Days is keyed by DateLayout; days that could not be optimized are absent.
	Days map[string]DailyOptimization
	// Skipped records why a day was left out. Informational only.
	Skipped map[string]string
	Summary Summary
}

// Dates returns the optimized days in ascending order
func (p *Plan) Dates() []string {
	dates := make([]string, 0, len(p.Days))
	for d := range p.Days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Planner computes per-day optimizations. It holds no state between calls.
type Planner struct {
	optimizer *optimizer.Optimizer
}

// New creates a Planner using opt for solver selection
func New(opt *optimizer.Optimizer) *Planner {
	if opt == nil {
		opt = optimizer.New(optimizer.DefaultOptions())
	}
	return &Planner{optimizer: opt}
}

// PlanDriver optimizes every day on which the driver has more than one
// planned or in-progress route. routes is expected in table order.
func (p *Planner) PlanDriver(driverID int64, routes []Route, lookup CoordinateLookup) *Plan {
	plan := &Plan{
		DriverID: driverID,
		Days:     make(map[string]DailyOptimization),
		Skipped:  make(map[string]string),
	}

	var dates []string
	byDate := make(map[string][]Route)
	for _, r := range routes {
		if r.DriverID != driverID || !r.Status.Optimizable() {
			continue
		}
		day := r.Day()
		if _, seen := byDate[day]; !seen {
			dates = append(dates, day)
		}
		byDate[day] = append(byDate[day], r)
	}

	for _, day := range dates {
		daily, reason := p.optimizeDay(day, byDate[day], lookup)
		if reason != "" {
			plan.Skipped[day] = reason
			continue
		}

		plan.Days[day] = daily
		plan.Summary.Days++
		plan.Summary.TotalBeforeKM += daily.DistanceBeforeKM
		plan.Summary.TotalAfterKM += daily.DistanceAfterKM
		plan.Summary.TotalSavingsKM += daily.SavingsKM
		plan.Summary.TotalStops += len(daily.Optimized)
		plan.Summary.TotalCargoKG += daily.CargoKG
	}

	plan.Summary.SavingsPercent = savingsPercent(plan.Summary.TotalSavingsKM, plan.Summary.TotalBeforeKM)

	return plan
}

// optimizeDay returns the day's optimization or a non-empty skip reason
func (p *Planner) optimizeDay(day string, routes []Route, lookup CoordinateLookup) (DailyOptimization, string) {
	if len(routes) < 2 {
		return DailyOptimization{}, SkipSingleRoute
	}

	origin, ok := lookup.Lookup(routes[0].Origin)
	if !ok {
		return DailyOptimization{}, SkipUnknownOrigin
	}

	daily := DailyOptimization{Date: day, Origin: origin}
	points := []calculator.Point{origin}
	for _, r := range routes {
		daily.StoredDistanceKM += r.DistanceKM

		dest, ok := lookup.Lookup(r.Destination)
		if !ok {
			continue
		}
		daily.Original = append(daily.Original, Stop{Point: dest, RouteID: r.ID, CargoKG: r.CargoKG})
		daily.CargoKG += r.CargoKG
		points = append(points, dest)
	}

	if len(daily.Original) < 2 {
		return DailyOptimization{}, SkipTooFewDestination
	}

	m := calculator.BuildMatrix(points)

	inputOrder := make([]int, len(daily.Original))
	for i := range inputOrder {
		inputOrder[i] = i
	}
	daily.DistanceBeforeKM = m.PathDistance(inputOrder)

	res := p.optimizer.OptimizeMatrix(m, optimizer.AlgorithmAuto)
	if res.TotalDistanceKM > daily.DistanceBeforeKM {
		// Heuristics can lose to the entered order; never report negative savings.
		res = optimizer.Result{
			Order:           inputOrder,
			TotalDistanceKM: daily.DistanceBeforeKM,
			Algorithm:       optimizer.AlgorithmInputOrder,
		}
	}

	daily.Optimized = make([]Stop, len(res.Order))
	for i, idx := range res.Order {
		daily.Optimized[i] = daily.Original[idx]
	}
	daily.DistanceAfterKM = res.TotalDistanceKM
	daily.Algorithm = res.Algorithm
	daily.SavingsKM = daily.DistanceBeforeKM - daily.DistanceAfterKM
	daily.SavingsPercent = savingsPercent(daily.SavingsKM, daily.DistanceBeforeKM)

	return daily, ""
}

func savingsPercent(savings, before float64) float64 {
	if before == 0 {
		return 0
	}
	return savings / before * 100
}
