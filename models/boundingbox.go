package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BoundingBox is the analysis rectangle, in degrees.
type BoundingBox struct {
	MinLon float64 `json:"min_lon" msgpack:"min_lon"`
	MinLat float64 `json:"min_lat" msgpack:"min_lat"`
	MaxLon float64 `json:"max_lon" msgpack:"max_lon"`
	MaxLat float64 `json:"max_lat" msgpack:"max_lat"`
}

func NewBoundingBox(minLon, minLat, maxLon, maxLat float64) BoundingBox {
	return BoundingBox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
}

// Bound returns the orb representation of the box.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// Validate checks ordering and containment in the allowed range.
func (b BoundingBox) Validate(allowed BoundingBox) error {
	for _, v := range []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidRegion)
		}
	}
	if b.MinLon >= b.MaxLon {
		return fmt.Errorf("%w: min_lon %.4f must be below max_lon %.4f", ErrInvalidRegion, b.MinLon, b.MaxLon)
	}
	if b.MinLat >= b.MaxLat {
		return fmt.Errorf("%w: min_lat %.4f must be below max_lat %.4f", ErrInvalidRegion, b.MinLat, b.MaxLat)
	}
	outer := allowed.Bound()
	if !outer.Contains(orb.Point{b.MinLon, b.MinLat}) || !outer.Contains(orb.Point{b.MaxLon, b.MaxLat}) {
		return fmt.Errorf("%w: %s is outside the supported area %s", ErrInvalidRegion, b, allowed)
	}
	return nil
}

// Corners returns SW, NW, NE, SE as lon/lat pairs.
func (b BoundingBox) Corners() [4][2]float64 {
	return [4][2]float64{
		{b.MinLon, b.MinLat},
		{b.MinLon, b.MaxLat},
		{b.MaxLon, b.MaxLat},
		{b.MaxLon, b.MinLat},
	}
}

// GeoJSON returns the box as a GeoJSON polygon feature.
func (b BoundingBox) GeoJSON() *geojson.Feature {
	f := geojson.NewFeature(b.Bound().ToPolygon())
	f.Properties["name"] = "Analysis Area"
	return f
}

// Key is a stable textual form used for cache keys. It keeps full float
// precision so that distinct boxes never share a key.
func (b BoundingBox) Key() string {
	parts := make([]string, 0, 4)
	for _, v := range []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat} {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%.4f, %.4f, %.4f, %.4f]", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}
