package services

import "backwater-server/models"

// IsMonsoon reports whether a "YYYY-MM" label falls in June-September.
// Malformed labels are never monsoon months.
func IsMonsoon(month string) bool {
	n, ok := models.MonthNumber(month)
	return ok && n >= 6 && n <= 9
}

// MonsoonRuns compresses flags into maximal runs of consecutive true
// positions, in ascending order.
func MonsoonRuns(flags []bool) []models.MonsoonRun {
	runs := []models.MonsoonRun{}
	start := -1
	for i, f := range flags {
		switch {
		case f && start < 0:
			start = i
		case !f && start >= 0:
			runs = append(runs, models.MonsoonRun{StartPos: start, EndPos: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, models.MonsoonRun{StartPos: start, EndPos: len(flags) - 1})
	}
	return runs
}
