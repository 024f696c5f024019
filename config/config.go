package config

import (
	"os"
	"path/filepath"
)

// Imagery service request constants
const IMAGERY_COLLECTION = "COPERNICUS/S2_SR_HARMONIZED"
const IMAGERY_MAX_CLOUDY_PIXEL_PERCENTAGE = 20
const IMAGERY_REDUCTION_SCALE_METERS = 30
const IMAGERY_MAX_PIXELS = 1e9
const IMAGERY_QA_BAND = "QA60"
const IMAGERY_CLOUD_BIT = 10
const IMAGERY_CIRRUS_BIT = 11
const IMAGERY_REFLECTANCE_SCALE = 10000

// Water mask: NDWI(B3, B8) above this and NIR (B8) reflectance below NIR max.
const WATER_MASK_NDWI_MIN = 0.1
const WATER_MASK_NIR_MAX = 0.15

// Map layers
const TURBIDITY_HOTSPOT_PERCENTILE = 85
const FLOATING_MATTER_PERCENTILE = 95

// Analysis area: the whole lake, used by the map tab.
const AOI_MIN_LON = 76.25
const AOI_MIN_LAT = 9.9
const AOI_MAX_LON = 76.45
const AOI_MAX_LAT = 10.1

// Default hotspot rectangle, used by the trend tab.
const HOTSPOT_MIN_LON = 76.255
const HOTSPOT_MIN_LAT = 9.905
const HOTSPOT_MAX_LON = 76.270
const HOTSPOT_MAX_LAT = 9.915

// Any requested rectangle must lie inside this range.
const VALID_MIN_LON = 76.0
const VALID_MAX_LON = 77.0
const VALID_MIN_LAT = 9.0
const VALID_MAX_LAT = 11.0

// Runtime-adjustable ranges
const COMPOSITE_MONTHS_MIN = 1
const COMPOSITE_MONTHS_MAX = 6
const COMPOSITE_MONTHS_DEFAULT = 3
const TREND_YEARS_MIN = 1
const TREND_YEARS_MAX = 5
const TREND_YEARS_DEFAULT = 2
const LAYER_OPACITY_DEFAULT = 0.7

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const PROXY_PROFILES_RESOURCE = "proxy_profiles.yaml"
const MONTHLY_RESULTS_RESOURCE = "monthly_results.json"
const COMPOSITE_RESULT_RESOURCE = "composite_result.json"

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}
