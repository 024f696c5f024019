package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"backwater-server/config"
	"backwater-server/models"
)

const (
	MIN_LON_QUERY_ARG = "min_lon"
	MIN_LAT_QUERY_ARG = "min_lat"
	MAX_LON_QUERY_ARG = "max_lon"
	MAX_LAT_QUERY_ARG = "max_lat"
	YEARS_QUERY_ARG   = "years"
	MONTHS_QUERY_ARG  = "months"
	PROFILE_QUERY_ARG = "profile"
	LAYER_QUERY_ARG   = "layer"
	OPACITY_QUERY_ARG = "opacity"
	FORMAT_QUERY_ARG  = "format"
	WINDOW_QUERY_ARG  = "window"
)

const DEFAULT_ROLLING_WINDOW = 3

var (
	HotspotRegion = models.NewBoundingBox(config.HOTSPOT_MIN_LON, config.HOTSPOT_MIN_LAT, config.HOTSPOT_MAX_LON, config.HOTSPOT_MAX_LAT)
	LakeRegion    = models.NewBoundingBox(config.AOI_MIN_LON, config.AOI_MIN_LAT, config.AOI_MAX_LON, config.AOI_MAX_LAT)
)

// parseRegion reads the four bbox arguments. Each missing one falls back to
// the matching edge of def.
func parseRegion(vals url.Values, def models.BoundingBox) (models.BoundingBox, error) {
	region := def
	edges := []struct {
		arg string
		dst *float64
	}{
		{MIN_LON_QUERY_ARG, &region.MinLon},
		{MIN_LAT_QUERY_ARG, &region.MinLat},
		{MAX_LON_QUERY_ARG, &region.MaxLon},
		{MAX_LAT_QUERY_ARG, &region.MaxLat},
	}
	for _, e := range edges {
		if vals.Get(e.arg) == "" {
			continue
		}
		v, err := parseArgFloat64(vals, e.arg)
		if err != nil {
			return models.BoundingBox{}, fmt.Errorf("%w: %s must be a number", models.ErrInvalidRegion, e.arg)
		}
		*e.dst = v
	}
	return region, nil
}

func parseArgFloat64(vals url.Values, key string) (float64, error) {
	return strconv.ParseFloat(vals.Get(key), 64)
}

// parseArgInt returns def when key is absent.
func parseArgInt(vals url.Values, key string, def int) (int, error) {
	raw := vals.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrInvalidArgument, key)
	}
	return v, nil
}

// parseArgFloat64Default returns def when key is absent.
func parseArgFloat64Default(vals url.Values, key string, def float64) (float64, error) {
	if vals.Get(key) == "" {
		return def, nil
	}
	v, err := parseArgFloat64(vals, key)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", models.ErrInvalidArgument, key)
	}
	return v, nil
}
