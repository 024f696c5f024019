package models

import "errors"

// Error kinds surfaced to the dashboard. A missing metric is not an error; it
// is a nil cell in MonthlyObservation.
var (
	ErrInvalidRegion   = errors.New("invalid region")
	ErrInvalidWindow   = errors.New("invalid analysis window")
	ErrNoImagery       = errors.New("no qualifying imagery for the requested window")
	ErrDataUnavailable = errors.New("imagery service unavailable")
	ErrUnknownProfile  = errors.New("unknown proxy profile")
	ErrInvalidArgument = errors.New("invalid argument")
)
