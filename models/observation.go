package models

import (
	"strconv"
	"strings"
	"time"
)

// MonthlyObservation is one row of the monthly series. A nil metric means the
// remote reduction produced no value for that month (no cloud-free scene or an
// empty water mask); it is never the same as zero.
type MonthlyObservation struct {
	Month            string   `json:"month" msgpack:"month"`
	ChlorophyllIndex *float64 `json:"chlorophyll_index" msgpack:"chlorophyll_index"`
	TurbidityIndex   *float64 `json:"turbidity_index" msgpack:"turbidity_index"`
	IsMonsoon        bool     `json:"is_monsoon" msgpack:"is_monsoon"`
}

// MissingObservation is a row with both metrics missing.
func MissingObservation(monthStart time.Time) MonthlyObservation {
	return MonthlyObservation{Month: monthStart.Format(MonthLayout)}
}

// MonthNumber extracts the 1-12 month number from a "YYYY-MM" label.
func MonthNumber(label string) (int, bool) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
