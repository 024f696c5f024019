package models

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

// TrendReport is the payload of the trend tab.
type TrendReport struct {
	Region           BoundingBox      `json:"region" msgpack:"region"`
	Window           AnalysisWindow   `json:"window" msgpack:"window"`
	Profile          string           `json:"profile" msgpack:"profile"`
	Thresholds       ThresholdSet     `json:"thresholds" msgpack:"thresholds"`
	Series           Series           `json:"series" msgpack:"series"`
	HasData          bool             `json:"has_data" msgpack:"has_data"`
	Alerts           AlertSummary     `json:"alerts" msgpack:"alerts"`
	ChlorophyllStats DescriptiveStats `json:"chlorophyll_stats" msgpack:"chlorophyll_stats"`
	TurbidityStats   DescriptiveStats `json:"turbidity_stats" msgpack:"turbidity_stats"`
	ChlorophyllTrend *TrendLine       `json:"chlorophyll_trend,omitempty" msgpack:"chlorophyll_trend"`
	TurbidityTrend   *TrendLine       `json:"turbidity_trend,omitempty" msgpack:"turbidity_trend"`
	GeneratedAt      time.Time        `json:"generated_at" msgpack:"generated_at"`
}

// MetricSummary is one index of the single-composite summary.
type MetricSummary struct {
	BandStats
	Level Level `json:"level"`
}

// CompositeReport is the payload of the map tab statistics cards.
type CompositeReport struct {
	Region      BoundingBox      `json:"region"`
	Area        *geojson.Feature `json:"area" msgpack:"-"`
	Months      int              `json:"months"`
	DateRange   DateRange        `json:"date_range"`
	ImageCount  int              `json:"image_count"`
	Profile     string           `json:"profile"`
	Thresholds  ThresholdSet     `json:"thresholds"`
	Chlorophyll MetricSummary    `json:"chlorophyll"`
	Turbidity   MetricSummary    `json:"turbidity"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// MapLayer describes one raster overlay the map widget should draw.
type MapLayer struct {
	Name      string    `json:"name"`
	Band      string    `json:"band"`
	Palette   []string  `json:"palette"`
	Classes   []float64 `json:"classes,omitempty"`
	Threshold *float64  `json:"threshold"`
	Opacity   float64   `json:"opacity"`
	ImageID   string    `json:"image_id"`
}

// LayerReport is the payload of the map tab layer selector.
type LayerReport struct {
	Selection  string           `json:"selection" msgpack:"selection"`
	ImageCount int              `json:"image_count" msgpack:"image_count"`
	Layers     []MapLayer       `json:"layers" msgpack:"layers"`
	Area       *geojson.Feature `json:"area" msgpack:"-"`
}

// InUTC pins every timestamp of the report to UTC.
func (r *TrendReport) InUTC() {
	r.Window.Start = r.Window.Start.UTC()
	r.Window.End = r.Window.End.UTC()
	r.GeneratedAt = r.GeneratedAt.UTC()
}

// InUTC pins every timestamp of the report to UTC.
func (r *CompositeReport) InUTC() {
	r.DateRange.From = r.DateRange.From.UTC()
	r.DateRange.To = r.DateRange.To.UTC()
	r.GeneratedAt = r.GeneratedAt.UTC()
}
