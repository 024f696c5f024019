package models

import (
	"fmt"
	"time"
)

const MonthLayout = "2006-01"

// LookbackUnit is the unit of a lookback count.
type LookbackUnit string

const (
	LookbackMonth LookbackUnit = "month"
	LookbackYear  LookbackUnit = "year"
)

// AnalysisWindow is a closed interval of whole calendar months. Start and End
// are the first instant (UTC) of their months; End is exclusive for monthly
// iteration, so MonthCount months start at Start, Start+1, ..., End-1.
type AnalysisWindow struct {
	Start      time.Time `json:"start" msgpack:"start"`
	End        time.Time `json:"end" msgpack:"end"`
	MonthCount int       `json:"month_count" msgpack:"month_count"`
}

// MonthStart returns the start of the m-th month of the window.
func (w AnalysisWindow) MonthStart(m int) time.Time {
	return w.Start.AddDate(0, m, 0)
}

// Months lists all month starts of the window in ascending order.
func (w AnalysisWindow) Months() []time.Time {
	months := make([]time.Time, 0, w.MonthCount)
	for m := 0; m < w.MonthCount; m++ {
		months = append(months, w.MonthStart(m))
	}
	return months
}

func (w AnalysisWindow) String() string {
	return fmt.Sprintf("%s..%s (%d months)", w.Start.Format(MonthLayout), w.End.Format(MonthLayout), w.MonthCount)
}

// FirstOfMonth truncates t to the first instant of its month, in UTC.
func FirstOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DateRange is a half-open [From, To) interval sent to the imagery service.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// MonthRange returns [monthStart, monthStart+1 month).
func MonthRange(monthStart time.Time) DateRange {
	return DateRange{From: monthStart, To: monthStart.AddDate(0, 1, 0)}
}
