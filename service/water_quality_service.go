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
	"backwater-server/metrics"
	"backwater-server/models"
)

// TrendRequest selects the monthly trend of one region.
type TrendRequest struct {
	Region  models.BoundingBox
	Years   int
	Profile string
	Now     time.Time
}

// WaterQualityService builds the trend tab: window, monthly series, alerts
// and descriptive statistics.
type WaterQualityService struct {
	imageryAPI  imagery.ImageryAPI
	profiles    *config.ProfileRegistry
	resolver    *Resolver
	assembler   *Assembler
	resultCache *cache.ResultCache
	cacheTTL    time.Duration
}

func NewWaterQualityService(
	imageryAPI imagery.ImageryAPI,
	profiles *config.ProfileRegistry,
	resolver *Resolver,
	assembler *Assembler,
	resultCache *cache.ResultCache,
	cacheTTL time.Duration,
) *WaterQualityService {
	return &WaterQualityService{
		imageryAPI:  imageryAPI,
		profiles:    profiles,
		resolver:    resolver,
		assembler:   assembler,
		resultCache: resultCache,
		cacheTTL:    cacheTTL,
	}
}

// Trend returns the report for req, from the cache when an entry for the
// same region, window and profile is still live.
func (s *WaterQualityService) Trend(ctx context.Context, req TrendRequest) (*models.TrendReport, error) {
	if req.Years < config.TREND_YEARS_MIN || req.Years > config.TREND_YEARS_MAX {
		return nil, fmt.Errorf("%w: trend window must be %d-%d years, got %d",
			models.ErrInvalidWindow, config.TREND_YEARS_MIN, config.TREND_YEARS_MAX, req.Years)
	}
	profile, err := s.profiles.Get(req.Profile)
	if err != nil {
		return nil, err
	}
	window, err := s.resolver.Resolve(req.Region, req.Years, models.LookbackYear, req.Now)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey(redis.TREND_KEY_PREFIX, req.Region.Key(), window.Start.Format(models.MonthLayout), window.MonthCount, profile.Version)
	report, cached, err := cache.GetOrCompute(ctx, s.resultCache, key, s.cacheTTL, func(ctx context.Context) (models.TrendReport, error) {
		series, err := s.Series(ctx, req.Region, window, profile)
		if err != nil {
			return models.TrendReport{}, err
		}
		return BuildTrendReport(req.Region, window, profile, series, time.Now().UTC()), nil
	})
	if err != nil {
		return nil, err
	}
	if cached {
		log.Debugf("[WaterQualityService] trend for %s %s served from cache", req.Region, window)
	}
	metrics.SetAlertMonths(report.Alerts.ChlorophyllAlertCount, report.Alerts.TurbidityAlertCount)
	return &report, nil
}

// Series assembles the monthly series of window with profile, bypassing the cache.
func (s *WaterQualityService) Series(ctx context.Context, region models.BoundingBox, window models.AnalysisWindow, profile models.ProxyProfile) (*models.Series, error) {
	fetcher := NewMonthFetcher(s.imageryAPI, profile)
	started := time.Now()
	series, err := s.assembler.Assemble(ctx, window, region, fetcher.FetchMonth)
	if err != nil {
		return nil, err
	}
	log.Infof("[WaterQualityService] assembled %d months for %s in %s", series.Len(), region, time.Since(started).Round(time.Millisecond))
	return series, nil
}

// BuildTrendReport evaluates series against the profile thresholds.
func BuildTrendReport(region models.BoundingBox, window models.AnalysisWindow, profile models.ProxyProfile, series *models.Series, generatedAt time.Time) models.TrendReport {
	chl := series.Chlorophyll()
	turb := series.Turbidity()
	return models.TrendReport{
		Region:           region,
		Window:           window,
		Profile:          profile.Version,
		Thresholds:       profile.Thresholds,
		Series:           *series,
		HasData:          series.HasChlorophyll(),
		Alerts:           Evaluate(series, profile.Thresholds),
		ChlorophyllStats: Describe(chl),
		TurbidityStats:   Describe(turb),
		ChlorophyllTrend: Trend(chl),
		TurbidityTrend:   Trend(turb),
		GeneratedAt:      generatedAt,
	}
}
