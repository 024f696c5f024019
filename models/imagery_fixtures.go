package models

// MonthlyResult is a recorded monthly composite reduction, as served by the
// fixture-backed imagery client.
type MonthlyResult struct {
	ImageCount int      `json:"image_count"`
	Ndci       *float64 `json:"ndci"`
	Turbidity  *float64 `json:"turbidity"`
}

// MonthlyResultsFixture maps "YYYY-MM" labels to recorded results.
type MonthlyResultsFixture struct {
	Months map[string]MonthlyResult `json:"months"`
}

// CompositeResultFixture is a recorded single-composite reduction.
// Percentiles are keyed by band, then by percentile ("85", "95").
type CompositeResultFixture struct {
	ImageCount  int                            `json:"image_count"`
	Stats       map[string]BandStats           `json:"stats"`
	Percentiles map[string]map[string]*float64 `json:"percentiles"`
}
