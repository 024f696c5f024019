package models

// ThresholdSet holds the warning (elevated) and critical (high) cutoffs of
// both metrics.
type ThresholdSet struct {
	ChlorophyllElevated float64 `json:"chlorophyll_elevated" yaml:"chlorophyll_elevated" msgpack:"chlorophyll_elevated"`
	ChlorophyllHigh     float64 `json:"chlorophyll_high" yaml:"chlorophyll_high" msgpack:"chlorophyll_high"`
	TurbidityElevated   float64 `json:"turbidity_elevated" yaml:"turbidity_elevated" msgpack:"turbidity_elevated"`
	TurbidityHigh       float64 `json:"turbidity_high" yaml:"turbidity_high" msgpack:"turbidity_high"`
}

// ProxyProfile binds a turbidity proxy formula to the thresholds calibrated
// for it. Profiles are versioned; the version is part of every cache key.
type ProxyProfile struct {
	Version             string       `json:"version" yaml:"version" msgpack:"version"`
	Name                string       `json:"name" yaml:"name" msgpack:"name"`
	TurbidityExpression string       `json:"turbidity_expression" yaml:"turbidity_expression" msgpack:"turbidity_expression"`
	Thresholds          ThresholdSet `json:"thresholds" yaml:"thresholds" msgpack:"thresholds"`
}

// Level is a qualitative band for a single metric value.
type Level string

const (
	LevelLow      Level = "Low"
	LevelElevated Level = "Elevated"
	LevelHigh     Level = "High"
	LevelNA       Level = "N/A"
)
