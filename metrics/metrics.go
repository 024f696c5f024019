package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "backwater_"

	ResultSuccess = "success"
	ResultMissing = "missing"
	ResultError   = "error"
	ResultTimeout = "timeout"
)

var (
	registerOnce sync.Once

	monthFetchTotal   *prometheus.CounterVec
	monthFetchLatency *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec
	cacheClears  prometheus.Counter

	seriesAssembleTotal *prometheus.CounterVec
	alertMonths         *prometheus.GaugeVec
	exportTotal         *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		monthFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "month_fetch_total",
				Help: "Monthly composite fetches by result",
			},
			[]string{"result"},
		)
		monthFetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "month_fetch_latency_seconds",
				Help:    "Monthly composite fetch latency in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60},
			},
			[]string{"result"},
		)
		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_lookups_total",
				Help: "Result cache lookups by kind and outcome",
			},
			[]string{"kind", "outcome"},
		)
		cacheClears = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_clears_total",
				Help: "Wholesale result cache clears",
			},
		)
		seriesAssembleTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "series_assemble_total",
				Help: "Monthly series assemblies by result",
			},
			[]string{"result"},
		)
		alertMonths = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "alert_months",
				Help: "Months above the critical cutoff in the last evaluated series",
			},
			[]string{"metric"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Series exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			monthFetchTotal,
			monthFetchLatency,
			cacheLookups,
			cacheClears,
			seriesAssembleTotal,
			alertMonths,
			exportTotal,
		)
	})
}

// ObserveMonthFetch records one monthly fetch.
func ObserveMonthFetch(result string, duration time.Duration) {
	if monthFetchTotal != nil {
		monthFetchTotal.WithLabelValues(result).Inc()
	}
	if monthFetchLatency != nil {
		monthFetchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncCacheLookup counts a cache hit or miss for a report kind.
func IncCacheLookup(kind string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	if cacheLookups != nil {
		cacheLookups.WithLabelValues(kind, outcome).Inc()
	}
}

func IncCacheClear() {
	if cacheClears != nil {
		cacheClears.Inc()
	}
}

func IncSeriesAssemble(result string) {
	if seriesAssembleTotal != nil {
		seriesAssembleTotal.WithLabelValues(result).Inc()
	}
}

// SetAlertMonths publishes the alert counts of the latest evaluation.
func SetAlertMonths(chlorophyll, turbidity int) {
	if alertMonths == nil {
		return
	}
	alertMonths.WithLabelValues("chlorophyll").Set(float64(chlorophyll))
	alertMonths.WithLabelValues("turbidity").Set(float64(turbidity))
}

func IncExport(format, result string) {
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}
