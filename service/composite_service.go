package services

import (
	"context"
	"fmt"
	"time"

	"backwater-server/api/imagery"
	"backwater-server/cache"
	"backwater-server/config"
	"backwater-server/dao/redis"
	"backwater-server/log"
	"backwater-server/models"
)

// Layer selections of the map tab.
const (
	LAYER_EUTROPHICATION = "eutrophication"
	LAYER_TURBIDITY      = "turbidity"
	LAYER_FLOATING       = "floating"
	LAYER_MULTI          = "multi"
)

// NDCI class breaks: below the first break is class 1, above the last class 4.
var EutrophicationClasses = []float64{0.05, 0.15, 0.25}

var (
	eutrophicationPalette = []string{"#00FF00", "#FFFF00", "#FF8C00", "#FF0000"}
	turbidityPalette      = []string{"#FF0000"}
	floatingPalette       = []string{"#8A2BE2"}
)

// Opacity factors applied when all layers are drawn at once.
const (
	multiEutrophicationOpacity = 0.8
	multiTurbidityOpacity      = 0.7
	multiFloatingOpacity       = 0.7
)

// CompositeRequest selects the single composite of the map tab.
type CompositeRequest struct {
	Region  models.BoundingBox
	Months  int
	Profile string
	Now     time.Time
}

// CompositeService computes statistics and layer descriptors of one median
// composite over the current window.
type CompositeService struct {
	imageryAPI  imagery.ImageryAPI
	profiles    *config.ProfileRegistry
	resolver    *Resolver
	resultCache *cache.ResultCache
	cacheTTL    time.Duration
}

func NewCompositeService(
	imageryAPI imagery.ImageryAPI,
	profiles *config.ProfileRegistry,
	resolver *Resolver,
	resultCache *cache.ResultCache,
	cacheTTL time.Duration,
) *CompositeService {
	return &CompositeService{
		imageryAPI:  imageryAPI,
		profiles:    profiles,
		resolver:    resolver,
		resultCache: resultCache,
		cacheTTL:    cacheTTL,
	}
}

type compositeInput struct {
	profile models.ProxyProfile
	dates   models.DateRange
}

func (s *CompositeService) validate(req CompositeRequest) (compositeInput, error) {
	if err := req.Region.Validate(s.resolver.allowed); err != nil {
		return compositeInput{}, err
	}
	if req.Months < config.COMPOSITE_MONTHS_MIN || req.Months > config.COMPOSITE_MONTHS_MAX {
		return compositeInput{}, fmt.Errorf("%w: composite window must be %d-%d months, got %d",
			models.ErrInvalidWindow, config.COMPOSITE_MONTHS_MIN, config.COMPOSITE_MONTHS_MAX, req.Months)
	}
	profile, err := s.profiles.Get(req.Profile)
	if err != nil {
		return compositeInput{}, err
	}
	now := req.Now.UTC()
	return compositeInput{
		profile: profile,
		dates:   models.DateRange{From: now.AddDate(0, -req.Months, 0), To: now},
	}, nil
}

// ValidateRegion checks region against the supported area.
func (s *CompositeService) ValidateRegion(region models.BoundingBox) error {
	return region.Validate(s.resolver.allowed)
}

func (s *CompositeService) composite(ctx context.Context, in compositeInput, region models.BoundingBox) (*imagery.Composite, error) {
	composite, err := s.imageryAPI.MedianComposite(ctx, in.dates, region, in.profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDataUnavailable, err)
	}
	if composite.ImageCount == 0 {
		return nil, fmt.Errorf("%w: %s..%s", models.ErrNoImagery, in.dates.From.Format("2006-01-02"), in.dates.To.Format("2006-01-02"))
	}
	return composite, nil
}

// Summarize reduces the composite once for both indices and classifies
// their means against the profile thresholds.
func (s *CompositeService) Summarize(ctx context.Context, req CompositeRequest) (*models.CompositeReport, error) {
	in, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey(redis.COMPOSITE_KEY_PREFIX, req.Region.Key(), req.Months, in.profile.Version, in.dates.To.Format("2006-01-02"))
	report, cached, err := cache.GetOrCompute(ctx, s.resultCache, key, s.cacheTTL, func(ctx context.Context) (models.CompositeReport, error) {
		return s.summarize(ctx, req, in)
	})
	if err != nil {
		return nil, err
	}
	if cached {
		log.Debugf("[CompositeService] summary for %s served from cache", req.Region)
	}
	report.Area = req.Region.GeoJSON()
	return &report, nil
}

func (s *CompositeService) summarize(ctx context.Context, req CompositeRequest, in compositeInput) (models.CompositeReport, error) {
	composite, err := s.composite(ctx, in, req.Region)
	if err != nil {
		return models.CompositeReport{}, err
	}

	stats, err := s.imageryAPI.ReduceStats(ctx, composite.ImageID,
		[]string{imagery.BAND_NDCI, imagery.BAND_TURBIDITY}, req.Region, config.IMAGERY_REDUCTION_SCALE_METERS)
	if err != nil {
		return models.CompositeReport{}, fmt.Errorf("%w: %w", models.ErrDataUnavailable, err)
	}

	t := in.profile.Thresholds
	chl := stats[imagery.BAND_NDCI]
	turb := stats[imagery.BAND_TURBIDITY]
	return models.CompositeReport{
		Region:     req.Region,
		Months:     req.Months,
		DateRange:  in.dates,
		ImageCount: composite.ImageCount,
		Profile:    in.profile.Version,
		Thresholds: t,
		Chlorophyll: models.MetricSummary{
			BandStats: chl,
			Level:     Classify(chl.Mean, t.ChlorophyllElevated, t.ChlorophyllHigh),
		},
		Turbidity: models.MetricSummary{
			BandStats: turb,
			Level:     Classify(turb.Mean, t.TurbidityElevated, t.TurbidityHigh),
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Layers describes the overlays for selection at the given opacity.
// Percentile cutoffs that cannot be computed leave the layer empty.
func (s *CompositeService) Layers(ctx context.Context, req CompositeRequest, selection string, opacity float64) (*models.LayerReport, error) {
	if opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("%w: opacity must be within [0, 1], got %g", models.ErrInvalidArgument, opacity)
	}
	switch selection {
	case LAYER_EUTROPHICATION, LAYER_TURBIDITY, LAYER_FLOATING, LAYER_MULTI:
	default:
		return nil, fmt.Errorf("%w: unknown layer %q", models.ErrInvalidArgument, selection)
	}
	in, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	// Derived-image results do not expire; they live until the cache is cleared.
	key := cache.GenerateKey(redis.LAYERS_KEY_PREFIX, req.Region.Key(), req.Months, in.profile.Version, in.dates.To.Format("2006-01-02"), selection, opacity)
	report, _, err := cache.GetOrCompute(ctx, s.resultCache, key, 0, func(ctx context.Context) (models.LayerReport, error) {
		return s.layers(ctx, req, in, selection, opacity)
	})
	if err != nil {
		return nil, err
	}
	report.Area = req.Region.GeoJSON()
	return &report, nil
}

func (s *CompositeService) layers(ctx context.Context, req CompositeRequest, in compositeInput, selection string, opacity float64) (models.LayerReport, error) {
	composite, err := s.composite(ctx, in, req.Region)
	if err != nil {
		return models.LayerReport{}, err
	}

	report := models.LayerReport{Selection: selection, ImageCount: composite.ImageCount, Layers: []models.MapLayer{}}
	add := func(build func() (models.MapLayer, error), factor float64) error {
		layer, err := build()
		if err != nil {
			return err
		}
		layer.Opacity = opacity * factor
		layer.ImageID = composite.ImageID
		report.Layers = append(report.Layers, layer)
		return nil
	}

	eutrophication := func() (models.MapLayer, error) {
		return models.MapLayer{
			Name:    "Chlorophyll Index",
			Band:    imagery.BAND_NDCI,
			Palette: eutrophicationPalette,
			Classes: EutrophicationClasses,
		}, nil
	}
	turbidity := func() (models.MapLayer, error) {
		p, err := s.percentile(ctx, composite.ImageID, imagery.BAND_TURBIDITY, req.Region, config.TURBIDITY_HOTSPOT_PERCENTILE)
		return models.MapLayer{Name: "Turbidity Hotspots", Band: imagery.BAND_TURBIDITY, Palette: turbidityPalette, Threshold: p}, err
	}
	floating := func() (models.MapLayer, error) {
		p, err := s.percentile(ctx, composite.ImageID, imagery.BAND_NIR, req.Region, config.FLOATING_MATTER_PERCENTILE)
		return models.MapLayer{Name: "Floating Matter", Band: imagery.BAND_NIR, Palette: floatingPalette, Threshold: p}, err
	}

	switch selection {
	case LAYER_EUTROPHICATION:
		err = add(eutrophication, 1)
	case LAYER_TURBIDITY:
		err = add(turbidity, 1)
	case LAYER_FLOATING:
		err = add(floating, 1)
	case LAYER_MULTI:
		if err = add(eutrophication, multiEutrophicationOpacity); err == nil {
			if err = add(turbidity, multiTurbidityOpacity); err == nil {
				err = add(floating, multiFloatingOpacity)
			}
		}
	}
	if err != nil {
		return models.LayerReport{}, err
	}
	return report, nil
}

func (s *CompositeService) percentile(ctx context.Context, imageID, band string, region models.BoundingBox, p int) (*float64, error) {
	v, err := s.imageryAPI.ReducePercentile(ctx, imageID, band, region, config.IMAGERY_REDUCTION_SCALE_METERS, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDataUnavailable, err)
	}
	if v == nil {
		log.Infof("[CompositeService] no p%d for %s over %s, layer left empty", p, band, region)
	}
	return v, nil
}

// EutrophicationClass maps an NDCI value onto classes 1-4.
func EutrophicationClass(ndci float64) int {
	class := 1
	for _, b := range EutrophicationClasses {
		if ndci > b {
			class++
		}
	}
	return class
}
