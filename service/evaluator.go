package services

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"backwater-server/models"
)

// Slopes smaller than this, in index units per month, count as flat.
const trendFlatSlope = 1e-4

// Evaluate counts months strictly above the critical cutoffs. Missing
// values never count.
func Evaluate(series *models.Series, thresholds models.ThresholdSet) models.AlertSummary {
	var summary models.AlertSummary
	if series == nil {
		return summary
	}
	for _, row := range series.Rows {
		if row.ChlorophyllIndex != nil && *row.ChlorophyllIndex > thresholds.ChlorophyllHigh {
			summary.ChlorophyllAlertCount++
		}
		if row.TurbidityIndex != nil && *row.TurbidityIndex > thresholds.TurbidityHigh {
			summary.TurbidityAlertCount++
		}
	}
	return summary
}

// Describe summarises the present values. StdDev is the sample standard
// deviation and needs at least two values.
func Describe(values []*float64) models.DescriptiveStats {
	present := presentValues(values)
	stats := models.DescriptiveStats{Count: len(present)}
	if len(present) == 0 {
		return stats
	}

	mean, std := stat.MeanStdDev(present, nil)
	stats.Mean = models.Float(mean)
	stats.Min = models.Float(floats.Min(present))
	stats.Max = models.Float(floats.Max(present))
	if len(present) >= 2 && !math.IsNaN(std) {
		stats.StdDev = models.Float(std)
	}
	return stats
}

// Classify maps a value onto Low/Elevated/High using strict greater-than
// comparisons; a missing value is N/A.
func Classify(value *float64, elevated, high float64) models.Level {
	switch {
	case value == nil:
		return models.LevelNA
	case *value > high:
		return models.LevelHigh
	case *value > elevated:
		return models.LevelElevated
	default:
		return models.LevelLow
	}
}

// Trend fits a least-squares line through the present values against their
// series positions. It returns nil with fewer than two present values.
func Trend(values []*float64) *models.TrendLine {
	xs := make([]float64, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if v != nil {
			xs = append(xs, float64(i))
			ys = append(ys, *v)
		}
	}
	if len(xs) < 2 {
		return nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	direction := models.TrendFlat
	switch {
	case beta > trendFlatSlope:
		direction = models.TrendIncreasing
	case beta < -trendFlatSlope:
		direction = models.TrendDecreasing
	}
	return &models.TrendLine{Slope: beta, Intercept: alpha, Direction: direction}
}

// RollingMean averages each position with the window-1 positions before it,
// skipping missing values. Positions whose window holds no value are nil.
func RollingMean(values []*float64, window int) []*float64 {
	if window < 1 {
		window = 1
	}
	out := make([]*float64, len(values))
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		present := presentValues(values[lo : i+1])
		if len(present) > 0 {
			out[i] = models.Float(stat.Mean(present, nil))
		}
	}
	return out
}

func presentValues(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
