package services

import (
	"fmt"
	"time"

	"backwater-server/models"
)

// Resolver turns user input into a validated region and analysis window.
type Resolver struct {
	allowed models.BoundingBox
}

// NewResolver creates a resolver accepting rectangles inside allowed.
func NewResolver(allowed models.BoundingBox) *Resolver {
	return &Resolver{allowed: allowed}
}

// Resolve validates bbox and anchors a window of lookbackCount units at now.
// The window ends at the first instant of the current month, so the partial
// current month is never part of the series.
func (r *Resolver) Resolve(bbox models.BoundingBox, lookbackCount int, unit models.LookbackUnit, now time.Time) (models.AnalysisWindow, error) {
	if err := bbox.Validate(r.allowed); err != nil {
		return models.AnalysisWindow{}, err
	}
	if lookbackCount <= 0 {
		return models.AnalysisWindow{}, fmt.Errorf("%w: lookback must be positive, got %d", models.ErrInvalidWindow, lookbackCount)
	}

	months := lookbackCount
	switch unit {
	case models.LookbackMonth:
	case models.LookbackYear:
		months = lookbackCount * 12
	default:
		return models.AnalysisWindow{}, fmt.Errorf("%w: unknown lookback unit %q", models.ErrInvalidWindow, unit)
	}

	end := models.FirstOfMonth(now)
	return models.AnalysisWindow{
		Start:      end.AddDate(0, -months, 0),
		End:        end,
		MonthCount: months,
	}, nil
}
