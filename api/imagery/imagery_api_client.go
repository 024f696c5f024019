package imagery

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2/clientcredentials"

	"backwater-server/api"
	"backwater-server/config"
	"backwater-server/models"
)

const (
	COMPOSITES_ENDPOINT = "/composites"
	REDUCTIONS_ENDPOINT = "/reductions"

	dateLayout = "2006-01-02"
)

type cloudMask struct {
	Band string `json:"band"`
	Bits []int  `json:"bits"`
}

type waterMask struct {
	NDWIMin float64 `json:"ndwi_min"`
	NIRMax  float64 `json:"nir_max"`
}

type compositeRequest struct {
	Collection               string            `json:"collection"`
	From                     string            `json:"from"`
	To                       string            `json:"to"`
	Bounds                   [4]float64        `json:"bounds"`
	MaxCloudyPixelPercentage int               `json:"max_cloudy_pixel_percentage"`
	CloudMask                cloudMask         `json:"cloud_mask"`
	ReflectanceScale         float64           `json:"reflectance_scale"`
	Reducer                  string            `json:"reducer"`
	WaterMask                waterMask         `json:"water_mask"`
	Bands                    map[string]string `json:"bands"`
}

type reductionRequest struct {
	ImageID    string     `json:"image_id"`
	Bands      []string   `json:"bands"`
	Region     [4]float64 `json:"region"`
	Scale      int        `json:"scale"`
	MaxPixels  float64    `json:"max_pixels"`
	Reducer    string     `json:"reducer"`
	Percentile int        `json:"percentile,omitempty"`
}

type reductionResult struct {
	Mean       *float64 `json:"mean"`
	StdDev     *float64 `json:"std_dev"`
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	Percentile *float64 `json:"percentile"`
}

type reductionResponse struct {
	Bands map[string]reductionResult `json:"bands"`
}

// ImageryApiClient embeds the common HTTPClient
type ImageryApiClient struct {
	*api.HTTPClient
}

// NewImageryApiClient creates a new instance of ImageryApiClient
func NewImageryApiClient(httpClient *api.HTTPClient) *ImageryApiClient {
	return &ImageryApiClient{
		HTTPClient: httpClient,
	}
}

// NewOAuthHTTPClient builds an HTTPClient whose requests carry a client
// credentials token, refreshed as needed.
func NewOAuthHTTPClient(ctx context.Context, cfg config.ImageryConfig) *api.HTTPClient {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	client := cc.Client(ctx)
	client.Timeout = cfg.Timeout
	return api.NewHTTPClientWith(cfg.BaseURL, client)
}

// MedianComposite asks the service to build the cloud-masked, water-masked
// median composite for the date range and region.
func (c *ImageryApiClient) MedianComposite(ctx context.Context, dates models.DateRange, region models.BoundingBox, profile models.ProxyProfile) (*Composite, error) {
	req := compositeRequest{
		Collection:               config.IMAGERY_COLLECTION,
		From:                     dates.From.Format(dateLayout),
		To:                       dates.To.Format(dateLayout),
		Bounds:                   bounds(region),
		MaxCloudyPixelPercentage: config.IMAGERY_MAX_CLOUDY_PIXEL_PERCENTAGE,
		CloudMask: cloudMask{
			Band: config.IMAGERY_QA_BAND,
			Bits: []int{config.IMAGERY_CLOUD_BIT, config.IMAGERY_CIRRUS_BIT},
		},
		ReflectanceScale: 1.0 / config.IMAGERY_REFLECTANCE_SCALE,
		Reducer:          "median",
		WaterMask: waterMask{
			NDWIMin: config.WATER_MASK_NDWI_MIN,
			NIRMax:  config.WATER_MASK_NIR_MAX,
		},
		Bands: map[string]string{
			BAND_NDCI:      config.CHLOROPHYLL_INDEX_EXPRESSION,
			BAND_TURBIDITY: profile.TurbidityExpression,
			BAND_NIR:       "B8",
		},
	}

	var response Composite
	if err := c.Request(ctx, http.MethodPost, COMPOSITES_ENDPOINT, nil, req, &response); err != nil {
		return nil, fmt.Errorf("[ImageryApiClient] composite %s..%s: %w", req.From, req.To, err)
	}
	return &response, nil
}

// ReduceMean averages band over the water pixels of region.
func (c *ImageryApiClient) ReduceMean(ctx context.Context, imageID, band string, region models.BoundingBox, scale int) (*float64, error) {
	res, err := c.reduce(ctx, reductionRequest{
		ImageID: imageID,
		Bands:   []string{band},
		Region:  bounds(region),
		Scale:   scale,
		Reducer: "mean",
	})
	if err != nil {
		return nil, err
	}
	return res.Bands[band].Mean, nil
}

// ReducePercentile returns the given percentile of band over the water pixels of region.
func (c *ImageryApiClient) ReducePercentile(ctx context.Context, imageID, band string, region models.BoundingBox, scale int, percentile int) (*float64, error) {
	res, err := c.reduce(ctx, reductionRequest{
		ImageID:    imageID,
		Bands:      []string{band},
		Region:     bounds(region),
		Scale:      scale,
		Reducer:    "percentile",
		Percentile: percentile,
	})
	if err != nil {
		return nil, err
	}
	return res.Bands[band].Percentile, nil
}

// ReduceStats computes mean, std dev, min and max of each band in one call.
func (c *ImageryApiClient) ReduceStats(ctx context.Context, imageID string, bands []string, region models.BoundingBox, scale int) (map[string]models.BandStats, error) {
	res, err := c.reduce(ctx, reductionRequest{
		ImageID: imageID,
		Bands:   bands,
		Region:  bounds(region),
		Scale:   scale,
		Reducer: "stats",
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.BandStats, len(bands))
	for _, b := range bands {
		r := res.Bands[b]
		out[b] = models.BandStats{Mean: r.Mean, StdDev: r.StdDev, Min: r.Min, Max: r.Max}
	}
	return out, nil
}

func (c *ImageryApiClient) reduce(ctx context.Context, req reductionRequest) (*reductionResponse, error) {
	req.MaxPixels = config.IMAGERY_MAX_PIXELS
	var response reductionResponse
	if err := c.Request(ctx, http.MethodPost, REDUCTIONS_ENDPOINT, nil, req, &response); err != nil {
		return nil, fmt.Errorf("[ImageryApiClient] %s reduction of %s: %w", req.Reducer, req.ImageID, err)
	}
	return &response, nil
}

func bounds(b models.BoundingBox) [4]float64 {
	return [4]float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat}
}

func percentileKey(p int) string {
	return strconv.Itoa(p)
}
