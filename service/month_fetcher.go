package services

import (
	"context"
	"fmt"
	"time"

	"backwater-server/api/imagery"
	"backwater-server/config"
	"backwater-server/models"
)

// FetchMonthFunc produces one row of the series. Missing metrics are nil
// fields, not errors; an error means the month could not be computed at all.
type FetchMonthFunc func(ctx context.Context, monthStart time.Time, region models.BoundingBox) (models.MonthlyObservation, error)

// MonthFetcher computes monthly water-mask means through the imagery service.
type MonthFetcher struct {
	imageryAPI imagery.ImageryAPI
	profile    models.ProxyProfile
}

func NewMonthFetcher(imageryAPI imagery.ImageryAPI, profile models.ProxyProfile) *MonthFetcher {
	return &MonthFetcher{imageryAPI: imageryAPI, profile: profile}
}

// FetchMonth builds the median composite of [monthStart, monthStart+1 month)
// and reduces both indices. A month without qualifying scenes has both
// metrics missing.
func (f *MonthFetcher) FetchMonth(ctx context.Context, monthStart time.Time, region models.BoundingBox) (models.MonthlyObservation, error) {
	obs := models.MissingObservation(monthStart)

	composite, err := f.imageryAPI.MedianComposite(ctx, models.MonthRange(monthStart), region, f.profile)
	if err != nil {
		return obs, fmt.Errorf("composite for %s: %w", obs.Month, err)
	}
	if composite.ImageCount == 0 {
		return obs, nil
	}

	obs.ChlorophyllIndex, err = f.imageryAPI.ReduceMean(ctx, composite.ImageID, imagery.BAND_NDCI, region, config.IMAGERY_REDUCTION_SCALE_METERS)
	if err != nil {
		return models.MissingObservation(monthStart), fmt.Errorf("chlorophyll for %s: %w", obs.Month, err)
	}
	obs.TurbidityIndex, err = f.imageryAPI.ReduceMean(ctx, composite.ImageID, imagery.BAND_TURBIDITY, region, config.IMAGERY_REDUCTION_SCALE_METERS)
	if err != nil {
		return models.MissingObservation(monthStart), fmt.Errorf("turbidity for %s: %w", obs.Month, err)
	}
	return obs, nil
}
