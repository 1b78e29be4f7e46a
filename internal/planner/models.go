// Package planner groups a driver's pending routes by calendar day, optimizes
// each day's visit order and reports the distance saved against the order in
// which the routes were entered.
package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stuartshay/route-optimizer/internal/calculator"
)

// DateLayout is the calendar-day key used to group routes
const DateLayout = "2006-01-02"

// Status is the lifecycle state of a route record
type Status string

// Route status constants
const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// OptimizableStatuses lists the statuses considered for daily optimization
var OptimizableStatuses = []Status{StatusPlanned, StatusInProgress}

// Optimizable reports whether routes in this state take part in planning
func (s Status) Optimizable() bool {
	return s == StatusPlanned || s == StatusInProgress
}

var statusLabels = map[Status][]string{
	StatusPlanned:    {"planned", "planificada", "planificado"},
	StatusInProgress: {"in_progress", "in progress", "in-progress", "en progreso", "en_progreso"},
	StatusCompleted:  {"completed", "completada", "completado"},
	StatusCancelled:  {"cancelled", "canceled", "cancelada", "cancelado"},
}

// ParseStatus maps free-form status labels, including the Spanish labels used
// by the dispatch spreadsheets, onto Status values. Unknown labels are
// returned lower-cased so validation can reject them.
func ParseStatus(label string) Status {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for status, labels := range statusLabels {
		for _, l := range labels {
			if normalized == l {
				return status
			}
		}
	}
	return Status(normalized)
}

// Labels returns every lower-cased label ParseStatus maps onto s
func (s Status) Labels() []string {
	labels, ok := statusLabels[s]
	if !ok {
		return []string{string(s)}
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// Route is one row of the route table
type Route struct {
	ID          int64     `validate:"gt=0"`
	DriverID    int64     `validate:"gt=0"`
	Origin      string    `validate:"required"`
	Destination string    `validate:"required"`
	DistanceKM  float64   `validate:"gte=0"`
	StartDate   time.Time `validate:"required"`
	EndDate     time.Time `validate:"omitempty,gtefield=StartDate"`
	Status      Status    `validate:"oneof=planned in_progress completed cancelled"`
	CargoKG     float64   `validate:"gte=0"`
}

// Day returns the calendar day of the route's start timestamp
func (r Route) Day() string {
	return r.StartDate.Format(DateLayout)
}

var validate = validator.New()

// ValidateRoute checks a route record before it reaches the planner
func ValidateRoute(r Route) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid route %d: %w", r.ID, err)
	}
	return nil
}

// Stop is a destination attributed to the route record it came from
type Stop struct {
	calculator.Point
	RouteID int64
	CargoKG float64
}

// CoordinateLookup resolves location names to coordinates
type CoordinateLookup interface {
	Lookup(name string) (calculator.Point, bool)
}

// Coordinates is an in-memory CoordinateLookup keyed by location name
type Coordinates map[string]calculator.Point

// Lookup returns the point registered under name, with Name filled in
func (c Coordinates) Lookup(name string) (calculator.Point, bool) {
	p, ok := c[name]
	if !ok {
		return calculator.Point{}, false
	}
	p.Name = name
	return p, true
}
