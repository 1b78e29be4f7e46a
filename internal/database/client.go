// Package database provides PostgreSQL client functionality for accessing
// the dispatch route table, driver roster and location coordinates with
// connection pooling and health checks.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/stuartshay/route-optimizer/internal/calculator"
	"github.com/stuartshay/route-optimizer/internal/planner"
)

// Client wraps a PostgreSQL database connection
type Client struct {
	db *sql.DB
}

// Driver represents a row of the driver roster
type Driver struct {
	ID      int64
	Name    string
	License string
	Phone   string
	Vehicle string
	Status  string
}

// RouteFilter narrows route queries. Zero values disable a filter.
type RouteFilter struct {
	DriverID  int64
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	Statuses  []planner.Status
}

// statusLabels expands the status filter to every stored label that parses
// onto one of the requested statuses.
func (f RouteFilter) statusLabels() []string {
	var labels []string
	for _, s := range f.Statuses {
		labels = append(labels, s.Labels()...)
	}
	return labels
}

// matchesStatus applies the status filter to a parsed route status
func (f RouteFilter) matchesStatus(s planner.Status) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, want := range f.Statuses {
		if s == want {
			return true
		}
	}
	return false
}

// NewClient creates a new database client with connection pooling
func NewClient(dsn string) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (also failed to close: %w)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// HealthCheck verifies database connectivity
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// GetRoutesByDriver returns a driver's planned and in-progress routes in
// table order, optionally limited to a start date range.
func (c *Client) GetRoutesByDriver(ctx context.Context, driverID int64, startDate, endDate string) ([]planner.Route, error) {
	return c.GetRoutes(ctx, RouteFilter{
		DriverID:  driverID,
		StartDate: startDate,
		EndDate:   endDate,
		Statuses:  planner.OptimizableStatuses,
	})
}

// GetRoutes retrieves route records matching filter, ordered by id so callers
// see the table order. Rows that fail validation are skipped.
func (c *Client) GetRoutes(ctx context.Context, filter RouteFilter) ([]planner.Route, error) {
	query, args := buildRoutesQuery(filter)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }() // nolint:errcheck // Close in defer, error not actionable

	var routes []planner.Route
	for rows.Next() {
		var r planner.Route
		var status string
		var distance, cargo sql.NullFloat64
		var endDate sql.NullTime

		err := rows.Scan(
			&r.ID,
			&r.DriverID,
			&r.Origin,
			&r.Destination,
			&distance,
			&r.StartDate,
			&endDate,
			&status,
			&cargo,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		// Convert NULL values to zero values
		if distance.Valid {
			r.DistanceKM = distance.Float64
		}
		if cargo.Valid {
			r.CargoKG = cargo.Float64
		}
		if endDate.Valid {
			r.EndDate = endDate.Time
		}
		r.Status = planner.ParseStatus(status)

		if err := planner.ValidateRoute(r); err != nil {
			log.Warn().Err(err).Int64("route_id", r.ID).Msg("Skipping invalid route row")
			continue
		}
		if !filter.matchesStatus(r.Status) {
			continue
		}

		routes = append(routes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return routes, nil
}

// buildRoutesQuery assembles the route SELECT with positional arguments
func buildRoutesQuery(filter RouteFilter) (string, []interface{}) {
	query := `
		SELECT
			id, driver_id, origin, destination, distance_km,
			start_date, end_date, status, cargo_kg
		FROM public.routes
	`

	var conditions []string
	var args []interface{}

	if filter.DriverID != 0 {
		args = append(args, filter.DriverID)
		conditions = append(conditions, fmt.Sprintf("driver_id = $%d", len(args)))
	}
	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d::date", len(args)))
	}
	if filter.EndDate != "" {
		args = append(args, filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("start_date < $%d::date + interval '1 day'", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, pq.Array(filter.statusLabels()))
		conditions = append(conditions, fmt.Sprintf("lower(trim(status)) = ANY($%d)", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id ASC"

	return query, args
}

// GetCoordinates loads the location name → coordinate lookup
func (c *Client) GetCoordinates(ctx context.Context) (planner.Coordinates, error) {
	query := `
		SELECT name, latitude, longitude
		FROM public.locations
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }() // nolint:errcheck // Close in defer, error not actionable

	coords := make(planner.Coordinates)
	for rows.Next() {
		var p calculator.Point
		if err := rows.Scan(&p.Name, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		coords[p.Name] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return coords, nil
}

// GetDrivers returns the driver roster ordered by id
func (c *Client) GetDrivers(ctx context.Context) ([]Driver, error) {
	query := `
		SELECT id, name, license, phone, vehicle, status
		FROM public.drivers
		ORDER BY id
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }() // nolint:errcheck // Close in defer, error not actionable

	var drivers []Driver
	for rows.Next() {
		var d Driver
		var license, phone, vehicle, status sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &license, &phone, &vehicle, &status); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		d.License = license.String
		d.Phone = phone.String
		d.Vehicle = vehicle.String
		d.Status = status.String
		drivers = append(drivers, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return drivers, nil
}
