package grpc

import "time"

// Location is a named coordinate on the wire
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// OptimizeRouteRequest asks for the best visit order of destinations from origin
type OptimizeRouteRequest struct {
	Origin       Location   `json:"origin"`
	Destinations []Location `json:"destinations" validate:"dive"`
	// Algorithm is optional; empty selects by problem size.
	Algorithm string `json:"algorithm,omitempty"`
}

// OptimizeRouteResponse compares the optimized order with the order given
type OptimizeRouteResponse struct {
	Algorithm       string     `json:"algorithm"`
	Order           []int      `json:"order"`
	Stops           []Location `json:"stops"`
	InputDistanceKM float64    `json:"input_distance_km"`
	TotalDistanceKM float64    `json:"total_distance_km"`
	SavingsKM       float64    `json:"savings_km"`
	SavingsPercent  float64    `json:"savings_percent"`
	MaxLegKM        float64    `json:"max_leg_km"`
	MinLegKM        float64    `json:"min_leg_km"`
	AvgLegKM        float64    `json:"avg_leg_km"`
}

// PlanDriverDaysRequest queues a planning job for one driver
type PlanDriverDaysRequest struct {
	DriverID  int64  `json:"driver_id" validate:"gt=0"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// PlanDriverDaysResponse acknowledges a queued job
type PlanDriverDaysResponse struct {
	JobID    string    `json:"job_id"`
	Status   string    `json:"status"`
	QueuedAt time.Time `json:"queued_at"`
}

// GetJobStatusRequest looks up a job
type GetJobStatusRequest struct {
	JobID string `json:"job_id" validate:"required"`
}

// GetJobStatusResponse reports a job's lifecycle and, once completed, its result
type GetJobStatusResponse struct {
	JobID        string     `json:"job_id"`
	Status       string     `json:"status"`
	DriverID     int64      `json:"driver_id"`
	QueuedAt     time.Time  `json:"queued_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Result       *JobResult `json:"result,omitempty"`
}

// JobResult is the outcome of a planning job
type JobResult struct {
	CSVPath          string  `json:"csv_path"`
	XLSXPath         string  `json:"xlsx_path"`
	DriverID         int64   `json:"driver_id"`
	StartDate        string  `json:"start_date,omitempty"`
	EndDate          string  `json:"end_date,omitempty"`
	DaysOptimized    int     `json:"days_optimized"`
	DaysSkipped      int     `json:"days_skipped"`
	TotalStops       int     `json:"total_stops"`
	TotalBeforeKM    float64 `json:"total_before_km"`
	TotalAfterKM     float64 `json:"total_after_km"`
	TotalSavingsKM   float64 `json:"total_savings_km"`
	SavingsPercent   float64 `json:"savings_percent"`
	ProcessingTimeMS int64   `json:"processing_time_ms"`
}

// ListJobsRequest pages through jobs, optionally filtered by status
type ListJobsRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=queued processing completed failed"`
	Limit  int    `json:"limit,omitempty" validate:"gte=0"`
	Offset int    `json:"offset,omitempty" validate:"gte=0"`
}

// ListJobsResponse is one page of jobs, newest first
type ListJobsResponse struct {
	Jobs       []JobSummary `json:"jobs"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
	TotalCount int          `json:"total_count"`
}

// JobSummary is the list view of a job
type JobSummary struct {
	JobID       string     `json:"job_id"`
	Status      string     `json:"status"`
	DriverID    int64      `json:"driver_id"`
	QueuedAt    time.Time  `json:"queued_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SummarizeDriversRequest limits the roll-up to a start date range
type SummarizeDriversRequest struct {
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SummarizeDriversResponse holds one summary per driver, ordered by driver ID
type SummarizeDriversResponse struct {
	Drivers []DriverSummary `json:"drivers"`
}

// DriverSummary is the per-driver route roll-up
type DriverSummary struct {
	DriverID        int64          `json:"driver_id"`
	Name            string         `json:"name,omitempty"`
	Vehicle         string         `json:"vehicle,omitempty"`
	DriverStatus    string         `json:"driver_status,omitempty"`
	Routes          int            `json:"routes"`
	TotalDistanceKM float64        `json:"total_distance_km"`
	AvgDistanceKM   float64        `json:"avg_distance_km"`
	TotalCargoKG    float64        `json:"total_cargo_kg"`
	AvgCargoKG      float64        `json:"avg_cargo_kg"`
	ByStatus        map[string]int `json:"by_status"`
}
