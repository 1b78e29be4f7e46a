// Package grpc implements the RouteOptimizerService gRPC server handlers
// for synchronous route optimization, driver planning jobs and report output.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/stuartshay/route-optimizer/internal/calculator"
	"github.com/stuartshay/route-optimizer/internal/config"
	"github.com/stuartshay/route-optimizer/internal/database"
	"github.com/stuartshay/route-optimizer/internal/optimizer"
	"github.com/stuartshay/route-optimizer/internal/planner"
	"github.com/stuartshay/route-optimizer/internal/queue"
	"github.com/stuartshay/route-optimizer/internal/report"
)

// Job list paging bounds
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// RouteStore is the data access the server needs; *database.Client satisfies it
type RouteStore interface {
	GetRoutesByDriver(ctx context.Context, driverID int64, startDate, endDate string) ([]planner.Route, error)
	GetRoutes(ctx context.Context, filter database.RouteFilter) ([]planner.Route, error)
	GetCoordinates(ctx context.Context) (planner.Coordinates, error)
	GetDrivers(ctx context.Context) ([]database.Driver, error)
}

// Server implements the RouteOptimizerService gRPC server
type Server struct {
	cfg       *config.Config
	store     RouteStore
	optimizer *optimizer.Optimizer
	planner   *planner.Planner
	queue     *queue.Queue
	validate  *validator.Validate
	tracer    trace.Tracer
}

// NewServer creates a new gRPC server instance
func NewServer(cfg *config.Config, store RouteStore) *Server {
	opt := optimizer.New(cfg.OptimizerOptions())
	s := &Server{
		cfg:       cfg,
		store:     store,
		optimizer: opt,
		planner:   planner.New(opt),
		validate:  validator.New(),
		tracer:    otel.Tracer("github.com/stuartshay/route-optimizer/internal/grpc"),
	}

	// Initialize job queue with processor
	s.queue = queue.NewQueue(cfg.WorkerCount, s.processPlanJob)

	return s
}

// invalidArgument converts a validation failure into a gRPC status
func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

// OptimizeRoute orders the destinations synchronously and compares the result
// with the order they were given in
func (s *Server) OptimizeRoute(ctx context.Context, req *OptimizeRouteRequest) (*OptimizeRouteResponse, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, invalidArgument(err)
	}
	if len(req.Destinations) > s.cfg.MaxDestinations {
		return nil, status.Errorf(codes.InvalidArgument,
			"%d destinations exceeds the limit of %d", len(req.Destinations), s.cfg.MaxDestinations)
	}

	algorithm := optimizer.ParseAlgorithm(req.Algorithm)

	log.Info().
		Int("destinations", len(req.Destinations)).
		Str("algorithm", string(algorithm)).
		Msg("Received route optimization request")

	points := make([]calculator.Point, 0, len(req.Destinations)+1)
	points = append(points, toPoint(req.Origin))
	for _, d := range req.Destinations {
		points = append(points, toPoint(d))
	}

	m := calculator.BuildMatrix(points)
	inputOrder := make([]int, len(req.Destinations))
	for i := range inputOrder {
		inputOrder[i] = i
	}
	before := m.PathDistance(inputOrder)

	res, err := s.optimizer.OptimizeMatrixContext(ctx, m, algorithm)
	if err != nil {
		log.Warn().Err(err).Int("destinations", len(req.Destinations)).Msg("Route optimization interrupted")
		return nil, status.FromContextError(err).Err()
	}

	resp := &OptimizeRouteResponse{
		Algorithm:       string(res.Algorithm),
		Order:           res.Order,
		Stops:           make([]Location, len(res.Order)),
		InputDistanceKM: before,
		TotalDistanceKM: res.TotalDistanceKM,
		SavingsKM:       before - res.TotalDistanceKM,
	}
	if before > 0 {
		resp.SavingsPercent = resp.SavingsKM / before * 100
	}

	ordered := make([]calculator.Point, len(res.Order))
	for i, idx := range res.Order {
		resp.Stops[i] = req.Destinations[idx]
		ordered[i] = points[idx+1]
	}

	metrics := calculator.CalculatePathMetrics(points[0], ordered)
	resp.MaxLegKM = metrics.MaxLegKM
	resp.MinLegKM = metrics.MinLegKM
	resp.AvgLegKM = metrics.AvgLegKM

	return resp, nil
}

func toPoint(l Location) calculator.Point {
	return calculator.Point{Name: l.Name, Latitude: l.Latitude, Longitude: l.Longitude}
}

// PlanDriverDays initiates an async planning job for one driver
func (s *Server) PlanDriverDays(ctx context.Context, req *PlanDriverDaysRequest) (*PlanDriverDaysResponse, error) {
	log.Info().
		Int64("driver_id", req.DriverID).
		Str("start_date", req.StartDate).
		Str("end_date", req.EndDate).
		Msg("Received driver planning request")

	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, invalidArgument(err)
	}

	jobID, err := s.queue.Enqueue(req.DriverID, req.StartDate, req.EndDate)
	if err != nil {
		log.Error().Err(err).Msg("Failed to enqueue job")
		if errors.Is(err, queue.ErrQueueFull) {
			return nil, status.Error(codes.ResourceExhausted, err.Error())
		}
		return nil, status.Errorf(codes.Internal, "failed to enqueue job: %v", err)
	}

	job, err := s.queue.GetJob(jobID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "job vanished after enqueue: %v", err)
	}

	return &PlanDriverDaysResponse{
		JobID:    jobID,
		Status:   string(queue.StatusQueued),
		QueuedAt: job.QueuedAt,
	}, nil
}

// GetJobStatus returns the current status of a planning job
func (s *Server) GetJobStatus(ctx context.Context, req *GetJobStatusRequest) (*GetJobStatusResponse, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, invalidArgument(err)
	}

	job, err := s.queue.GetJob(req.JobID)
	if err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			return nil, status.Error(codes.NotFound, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	resp := &GetJobStatusResponse{
		JobID:        job.ID,
		Status:       string(job.Status),
		DriverID:     job.DriverID,
		QueuedAt:     job.QueuedAt,
		StartedAt:    job.StartedAt,
		CompletedAt:  job.CompletedAt,
		ErrorMessage: job.ErrorMessage,
	}

	if job.Result != nil {
		resp.Result = &JobResult{
			CSVPath:          job.Result.CSVPath,
			XLSXPath:         job.Result.XLSXPath,
			DriverID:         job.DriverID,
			StartDate:        job.StartDate,
			EndDate:          job.EndDate,
			DaysOptimized:    job.Result.DaysOptimized,
			DaysSkipped:      job.Result.DaysSkipped,
			TotalStops:       job.Result.TotalStops,
			TotalBeforeKM:    job.Result.TotalBeforeKM,
			TotalAfterKM:     job.Result.TotalAfterKM,
			TotalSavingsKM:   job.Result.TotalSavingsKM,
			SavingsPercent:   job.Result.SavingsPercent,
			ProcessingTimeMS: job.Result.ProcessingTimeMS,
		}
	}

	return resp, nil
}

// ListJobs returns a page of planning jobs with optional status filtering
func (s *Server) ListJobs(ctx context.Context, req *ListJobsRequest) (*ListJobsResponse, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, invalidArgument(err)
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	jobs := s.queue.ListJobs(queue.JobStatus(req.Status), limit, req.Offset)

	resp := &ListJobsResponse{
		Jobs:   make([]JobSummary, 0, len(jobs)),
		Limit:  limit,
		Offset: req.Offset,
	}

	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, JobSummary{
			JobID:       job.ID,
			Status:      string(job.Status),
			DriverID:    job.DriverID,
			QueuedAt:    job.QueuedAt,
			CompletedAt: job.CompletedAt,
		})
	}

	resp.TotalCount = s.queue.GetStats().Count(queue.JobStatus(req.Status))

	return resp, nil
}

// SummarizeDrivers rolls up every route in the date range per driver and
// labels each summary from the driver roster. Drivers missing from the
// roster keep an empty name.
func (s *Server) SummarizeDrivers(ctx context.Context, req *SummarizeDriversRequest) (*SummarizeDriversResponse, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, invalidArgument(err)
	}

	routes, err := s.store.GetRoutes(ctx, database.RouteFilter{StartDate: req.StartDate, EndDate: req.EndDate})
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch routes from database")
		return nil, status.Errorf(codes.Unavailable, "database query failed: %v", err)
	}

	drivers, err := s.store.GetDrivers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch driver roster from database")
		return nil, status.Errorf(codes.Unavailable, "database query failed: %v", err)
	}
	roster := make(map[int64]database.Driver, len(drivers))
	for _, d := range drivers {
		roster[d.ID] = d
	}

	resp := &SummarizeDriversResponse{Drivers: []DriverSummary{}}
	for _, d := range planner.SummarizeDrivers(routes) {
		byStatus := make(map[string]int, len(d.ByStatus))
		for st, n := range d.ByStatus {
			byStatus[string(st)] = n
		}
		driver := roster[d.DriverID]
		resp.Drivers = append(resp.Drivers, DriverSummary{
			DriverID:        d.DriverID,
			Name:            driver.Name,
			Vehicle:         driver.Vehicle,
			DriverStatus:    driver.Status,
			Routes:          d.Routes,
			TotalDistanceKM: d.TotalDistanceKM,
			AvgDistanceKM:   d.AvgDistanceKM,
			TotalCargoKG:    d.TotalCargoKG,
			AvgCargoKG:      d.AvgCargoKG,
			ByStatus:        byStatus,
		})
	}

	return resp, nil
}

// processPlanJob is the worker function that plans a driver's days and writes
// the reports
func (s *Server) processPlanJob(ctx context.Context, job *queue.Job) (result *queue.JobResult, err error) {
	ctx, span := s.tracer.Start(ctx, "plan.driver", trace.WithAttributes(
		attribute.String("job.id", job.ID),
		attribute.Int64("driver.id", job.DriverID),
		attribute.String("plan.start_date", job.StartDate),
		attribute.String("plan.end_date", job.EndDate),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
		span.End()
	}()

	log.Info().
		Str("job_id", job.ID).
		Int64("driver_id", job.DriverID).
		Msg("Processing driver planning job")

	routes, err := s.store.GetRoutesByDriver(ctx, job.DriverID, job.StartDate, job.EndDate)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch routes from database")
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	if len(routes) == 0 {
		log.Warn().Int64("driver_id", job.DriverID).Msg("No open routes found for driver")
		return nil, fmt.Errorf("no open routes found for driver %d", job.DriverID)
	}

	coords, err := s.store.GetCoordinates(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load location coordinates")
		return nil, fmt.Errorf("coordinate lookup failed: %w", err)
	}

	started := time.Now()
	plan := s.planner.PlanDriver(job.DriverID, routes, coords)

	for _, date := range plan.Dates() {
		day := plan.Days[date]
		log.Debug().
			Str("date", date).
			Str("algorithm", string(day.Algorithm)).
			Int("stops", len(day.Optimized)).
			Float64("savings_km", day.SavingsKM).
			Msg("Day optimized")
	}
	for date, reason := range plan.Skipped {
		log.Debug().Str("date", date).Str("reason", reason).Msg("Day skipped")
	}

	log.Info().
		Int("days", plan.Summary.Days).
		Int("skipped", len(plan.Skipped)).
		Float64("total_before_km", plan.Summary.TotalBeforeKM).
		Float64("total_after_km", plan.Summary.TotalAfterKM).
		Float64("savings_percent", plan.Summary.SavingsPercent).
		Dur("elapsed", time.Since(started)).
		Msg("Driver plan calculated")

	span.SetAttributes(
		attribute.Int("plan.days", plan.Summary.Days),
		attribute.Int("plan.stops", plan.Summary.TotalStops),
		attribute.Float64("plan.savings_km", plan.Summary.TotalSavingsKM),
	)

	csvPath, err := report.WriteCSV(s.cfg.ReportOutputPath, plan, job.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate CSV file")
		return nil, fmt.Errorf("CSV generation failed: %w", err)
	}

	xlsxPath, err := report.WriteXLSX(s.cfg.ReportOutputPath, plan, job.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate XLSX file")
		return nil, fmt.Errorf("XLSX generation failed: %w", err)
	}

	return &queue.JobResult{
		CSVPath:        csvPath,
		XLSXPath:       xlsxPath,
		DaysOptimized:  plan.Summary.Days,
		DaysSkipped:    len(plan.Skipped),
		TotalStops:     plan.Summary.TotalStops,
		TotalBeforeKM:  plan.Summary.TotalBeforeKM,
		TotalAfterKM:   plan.Summary.TotalAfterKM,
		TotalSavingsKM: plan.Summary.TotalSavingsKM,
		SavingsPercent: plan.Summary.SavingsPercent,
	}, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.queue.Shutdown(timeout)
}
