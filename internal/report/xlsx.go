package report

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/stuartshay/route-optimizer/internal/planner"
)

// Sheet names of the XLSX workbook
const (
	SheetPlan = "Plan"
	SheetDays = "Days"
)

var dayHeader = []interface{}{
	"date", "origin", "stops", "before_km", "after_km", "savings_km",
	"savings_pct", "algorithm", "stored_km", "cargo_kg",
}

// WriteXLSX writes a workbook with the optimized stops on the Plan sheet and
// the per-day comparison on the Days sheet, returning the file path
func WriteXLSX(dir string, plan *planner.Plan, jobID string) (string, error) {
	if err := ensureDir(dir); err != nil {
		return "", err
	}

	xlsxPath := filepath.Join(dir, Filename(plan, jobID, "xlsx"))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close workbook")
		}
	}()

	index, err := f.NewSheet(SheetPlan)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writePlanSheet(f, plan); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(SheetDays); err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeDaysSheet(f, plan); err != nil {
		return "", err
	}

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(xlsxPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	log.Info().Str("xlsx_path", xlsxPath).Msg("XLSX file generated successfully")

	return xlsxPath, nil
}

// writePlanSheet streams one row per visited stop
func writePlanSheet(f *excelize.File, plan *planner.Plan) error {
	sw, err := f.NewStreamWriter(SheetPlan)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]interface{}, len(stopHeader))
	for i, h := range stopHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range stopRows(plan) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := []interface{}{
			r.Date, r.Sequence, r.RouteID, r.Stop, r.Latitude, r.Longitude,
			r.LegKM, r.CumulativeKM, r.CargoKG, r.Algorithm,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return sw.Flush()
}

// writeDaysSheet writes the before/after comparison, one row per day
func writeDaysSheet(f *excelize.File, plan *planner.Plan) error {
	if err := f.SetSheetRow(SheetDays, "A1", &dayHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, date := range plan.Dates() {
		day := plan.Days[date]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address day %s: %w", date, err)
		}
		row := []interface{}{
			date, day.Origin.Name, len(day.Optimized),
			day.DistanceBeforeKM, day.DistanceAfterKM, day.SavingsKM,
			day.SavingsPercent, string(day.Algorithm), day.StoredDistanceKM, day.CargoKG,
		}
		if err := f.SetSheetRow(SheetDays, cell, &row); err != nil {
			return fmt.Errorf("failed to write day %s: %w", date, err)
		}
	}

	return nil
}
