package imagery

import (
	"context"

	"backwater-server/models"
)

// Band names of the derived composite.
const (
	BAND_NDCI      = "ndci"
	BAND_TURBIDITY = "turbidity"
	BAND_NIR       = "nir"
)

// Composite is a server-side median composite. ImageCount is the number of
// scenes that passed the cloud filters; zero means there is nothing to reduce.
type Composite struct {
	ImageID    string `json:"image_id"`
	ImageCount int    `json:"image_count"`
}

// ImageryAPI defines the interface for interacting with the remote
// Earth-observation service. All pixel work happens remotely; reductions
// return nil when the water mask leaves no pixels.
type ImageryAPI interface {
	MedianComposite(ctx context.Context, dates models.DateRange, region models.BoundingBox, profile models.ProxyProfile) (*Composite, error)
	ReduceMean(ctx context.Context, imageID, band string, region models.BoundingBox, scale int) (*float64, error)
	ReducePercentile(ctx context.Context, imageID, band string, region models.BoundingBox, scale int, percentile int) (*float64, error)
	ReduceStats(ctx context.Context, imageID string, bands []string, region models.BoundingBox, scale int) (map[string]models.BandStats, error)
}
