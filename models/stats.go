package models

// DescriptiveStats summarises the present values of one metric column.
// Fields are nil when undefined (no values, or fewer than two for StdDev).
type DescriptiveStats struct {
	Count  int      `json:"count" msgpack:"count"`
	Mean   *float64 `json:"mean" msgpack:"mean"`
	StdDev *float64 `json:"std_dev" msgpack:"std_dev"`
	Min    *float64 `json:"min" msgpack:"min"`
	Max    *float64 `json:"max" msgpack:"max"`
}

// AlertSummary counts months above the critical cutoffs.
type AlertSummary struct {
	ChlorophyllAlertCount int `json:"chlorophyll_alert_count" msgpack:"chlorophyll_alert_count"`
	TurbidityAlertCount   int `json:"turbidity_alert_count" msgpack:"turbidity_alert_count"`
}

type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendFlat       TrendDirection = "flat"
)

// TrendLine is a least-squares fit y = Intercept + Slope*i over the present
// values, i being the series position of each present value.
type TrendLine struct {
	Slope     float64        `json:"slope" msgpack:"slope"`
	Intercept float64        `json:"intercept" msgpack:"intercept"`
	Direction TrendDirection `json:"direction" msgpack:"direction"`
}

// BandStats is a spatial reduction of one band over the water mask.
type BandStats struct {
	Mean   *float64 `json:"mean"`
	StdDev *float64 `json:"std_dev"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}
