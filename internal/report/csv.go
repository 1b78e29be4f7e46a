package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/stuartshay/route-optimizer/internal/planner"
)

// WriteCSV writes the plan's optimized stops followed by a summary footer
// and returns the file path
func WriteCSV(dir string, plan *planner.Plan, jobID string) (string, error) {
	if err := ensureDir(dir); err != nil {
		return "", err
	}

	csvPath := filepath.Join(dir, Filename(plan, jobID, "csv"))

	file, err := os.Create(csvPath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close CSV file")
		}
	}()

	writer := csv.NewWriter(file)

	if err := writer.Write(stopHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range stopRows(plan) {
		row := []string{
			r.Date,
			fmt.Sprintf("%d", r.Sequence),
			fmt.Sprintf("%d", r.RouteID),
			r.Stop,
			fmt.Sprintf("%.6f", r.Latitude),
			fmt.Sprintf("%.6f", r.Longitude),
			fmt.Sprintf("%.2f", r.LegKM),
			fmt.Sprintf("%.2f", r.CumulativeKM),
			fmt.Sprintf("%.2f", r.CargoKG),
			r.Algorithm,
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Write summary footer
	s := plan.Summary
	footer := [][]string{
		{},
		{"Summary"},
		{"Driver", fmt.Sprintf("%d", plan.DriverID)},
		{"Days Optimized", fmt.Sprintf("%d", s.Days)},
		{"Total Stops", fmt.Sprintf("%d", s.TotalStops)},
		{"Distance Before (km)", fmt.Sprintf("%.2f", s.TotalBeforeKM)},
		{"Distance After (km)", fmt.Sprintf("%.2f", s.TotalAfterKM)},
		{"Savings (km)", fmt.Sprintf("%.2f", s.TotalSavingsKM)},
		{"Savings (%)", fmt.Sprintf("%.2f", s.SavingsPercent)},
		{"Total Cargo (kg)", fmt.Sprintf("%.2f", s.TotalCargoKG)},
	}
	for _, date := range skippedDates(plan) {
		footer = append(footer, []string{"Skipped " + date, plan.Skipped[date]})
	}
	if err := writer.WriteAll(footer); err != nil {
		return "", fmt.Errorf("failed to write CSV summary: %w", err)
	}

	log.Info().Str("csv_path", csvPath).Msg("CSV file generated successfully")

	return csvPath, nil
}

func skippedDates(plan *planner.Plan) []string {
	dates := make([]string, 0, len(plan.Skipped))
	for d := range plan.Skipped {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
