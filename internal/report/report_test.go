package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stuartshay/route-optimizer/internal/planner"
)

func samplePlan(t *testing.T) *planner.Plan {
	t.Helper()

	coords := planner.Coordinates{
		"Lima":     {Latitude: -12.0464, Longitude: -77.0428},
		"Arequipa": {Latitude: -16.4090, Longitude: -71.5375},
		"Trujillo": {Latitude: -8.1116, Longitude: -79.0291},
		"Ica":      {Latitude: -14.0678, Longitude: -75.7286},
		"Cusco":    {Latitude: -13.5319, Longitude: -71.9675},
	}

	var routes []planner.Route
	add := func(id int64, day int, dest string) {
		start := time.Date(2024, 3, day, 7, 0, 0, 0, time.UTC)
		routes = append(routes, planner.Route{
			ID: id, DriverID: 5, Origin: "Lima", Destination: dest,
			DistanceKM: 500, StartDate: start, Status: planner.StatusPlanned, CargoKG: 2000,
		})
	}
	add(1, 4, "Arequipa")
	add(2, 4, "Trujillo")
	add(3, 4, "Ica")
	add(4, 6, "Cusco")
	add(5, 6, "Ica")
	add(6, 8, "Cusco")

	plan := planner.New(nil).PlanDriver(5, routes, coords)
	require.Len(t, plan.Days, 2)
	return plan
}

func TestFilename(t *testing.T) {
	plan := samplePlan(t)
	assert.Equal(t, "plan_5_20240304_20240308.csv", Filename(plan, "", "csv"), "span includes the skipped last day")
	assert.Equal(t, "plan_5_20240304_20240308_job-1.csv", Filename(plan, "job-1", "csv"))

	single := &planner.Plan{DriverID: 9, Days: map[string]planner.DailyOptimization{"2024-03-04": {}}}
	assert.Equal(t, "plan_9_20240304.xlsx", Filename(single, "", "xlsx"))

	skipped := &planner.Plan{DriverID: 9, Skipped: map[string]string{
		"2024-03-07": planner.SkipSingleRoute,
		"2024-03-05": planner.SkipUnknownOrigin,
	}}
	assert.Equal(t, "plan_9_20240305_20240307.csv", Filename(skipped, "", "csv"))

	empty := &planner.Plan{DriverID: 9}
	assert.Equal(t, "plan_9.csv", Filename(empty, "", "csv"))
	assert.Equal(t, "plan_9_job-2.csv", Filename(empty, "job-2", "csv"))
}

func TestWriteCSV_DistinctJobsDoNotCollide(t *testing.T) {
	plan := samplePlan(t)
	dir := t.TempDir()

	first, err := WriteCSV(dir, plan, "7f3c2a10-0000-4000-8000-000000000001")
	require.NoError(t, err)
	second, err := WriteCSV(dir, plan, "7f3c2a10-0000-4000-8000-000000000002")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStopRows(t *testing.T) {
	plan := samplePlan(t)
	rows := stopRows(plan)
	require.Len(t, rows, plan.Summary.TotalStops)

	// Cumulative distance per day must end at the optimized total.
	last := make(map[string]stopRow)
	for _, r := range rows {
		last[r.Date] = r
	}
	for date, day := range plan.Days {
		assert.InDelta(t, day.DistanceAfterKM, last[date].CumulativeKM, 1e-6)
		assert.Equal(t, len(day.Optimized), last[date].Sequence)
	}
}

func TestWriteCSV(t *testing.T) {
	plan := samplePlan(t)
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := WriteCSV(dir, plan, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plan_5_20240304_20240308.csv"), path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, stopHeader, records[0])
	stops := records[1 : 1+plan.Summary.TotalStops]
	for _, rec := range stops {
		assert.Len(t, rec, len(stopHeader))
	}
	assert.Equal(t, "2024-03-04", stops[0][0])
	assert.Equal(t, "1", stops[0][1])

	footer := records[1+plan.Summary.TotalStops:]
	assert.Equal(t, []string{"Summary"}, footer[0])
	assert.Contains(t, footer, []string{"Days Optimized", "2"})
	assert.Contains(t, footer, []string{"Total Stops", "5"})
	assert.Contains(t, footer, []string{"Skipped 2024-03-08", planner.SkipSingleRoute})
}

func TestWriteXLSX(t *testing.T) {
	plan := samplePlan(t)
	dir := t.TempDir()

	path, err := WriteXLSX(dir, plan, "job-9")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plan_5_20240304_20240308_job-9.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPlan, SheetDays}, f.GetSheetList())

	planRows, err := f.GetRows(SheetPlan)
	require.NoError(t, err)
	require.Len(t, planRows, 1+plan.Summary.TotalStops)
	assert.Equal(t, stopHeader, planRows[0])
	assert.Equal(t, "2024-03-04", planRows[1][0])

	dayRows, err := f.GetRows(SheetDays)
	require.NoError(t, err)
	require.Len(t, dayRows, 1+plan.Summary.Days)
	assert.Equal(t, "date", dayRows[0][0])
	assert.Equal(t, "2024-03-04", dayRows[1][0])
	assert.Equal(t, "Lima", dayRows[1][1])
	assert.Equal(t, "3", dayRows[1][2])
}

func TestWriteCSV_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	_, err := WriteCSV(filepath.Join(file, "reports"), samplePlan(t), "")
	assert.Error(t, err)
}

func TestWriteXLSX_EmptyPlan(t *testing.T) {
	plan := &planner.Plan{DriverID: 3, Skipped: map[string]string{"2024-03-09": planner.SkipSingleRoute}}
	dir := t.TempDir()

	path, err := WriteXLSX(dir, plan, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plan_3_20240309.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPlan, SheetDays}, f.GetSheetList(), "default sheet removed")
	planRows, err := f.GetRows(SheetPlan)
	require.NoError(t, err)
	assert.Len(t, planRows, 1)
}
