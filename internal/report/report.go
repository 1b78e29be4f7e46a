// Package report writes driver plans to CSV and XLSX files for dispatchers.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/stuartshay/route-optimizer/internal/calculator"
	"github.com/stuartshay/route-optimizer/internal/planner"
)

// stopHeader is shared by the CSV body and the XLSX "Plan" sheet
var stopHeader = []string{
	"date", "sequence", "route_id", "stop", "latitude", "longitude",
	"leg_km", "cumulative_km", "cargo_kg", "algorithm",
}

// stopRow is one visited stop in optimized order
type stopRow struct {
	Date         string
	Sequence     int
	RouteID      int64
	Stop         string
	Latitude     float64
	Longitude    float64
	LegKM        float64
	CumulativeKM float64
	CargoKG      float64
	Algorithm    string
}

// Filename returns plan_<driver>_<first day>[_<last day>][_<job>].<ext> with
// days written as YYYYMMDD. The span covers skipped days too, so a plan with
// nothing optimized still names its dates; jobID keeps concurrent jobs for
// the same driver and span apart and is omitted when empty.
func Filename(plan *planner.Plan, jobID, ext string) string {
	dates := planSpan(plan)
	name := fmt.Sprintf("plan_%d", plan.DriverID)
	if len(dates) > 0 {
		name += "_" + compactDate(dates[0])
		if last := dates[len(dates)-1]; last != dates[0] {
			name += "_" + compactDate(last)
		}
	}
	if jobID != "" {
		name += "_" + jobID
	}
	return name + "." + ext
}

// planSpan returns the optimized and skipped days in ascending order
func planSpan(plan *planner.Plan) []string {
	dates := plan.Dates()
	for d := range plan.Skipped {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func compactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// stopRows flattens the plan's optimized days in date order
func stopRows(plan *planner.Plan) []stopRow {
	var rows []stopRow
	for _, date := range plan.Dates() {
		day := plan.Days[date]
		prev := day.Origin
		var cumulative float64
		for i, s := range day.Optimized {
			leg := calculator.Distance(prev, s.Point)
			cumulative += leg
			rows = append(rows, stopRow{
				Date:         date,
				Sequence:     i + 1,
				RouteID:      s.RouteID,
				Stop:         s.Name,
				Latitude:     s.Latitude,
				Longitude:    s.Longitude,
				LegKM:        leg,
				CumulativeKM: cumulative,
				CargoKG:      s.CargoKG,
				Algorithm:    string(day.Algorithm),
			})
			prev = s.Point
		}
	}
	return rows
}

// ensureDir creates the output directory if it doesn't exist
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
