package services

import (
	"context"
	"sync/atomic"

	"backwater-server/api/imagery"
	"backwater-server/models"
)

// fakeImagery wraps the fixture mock with call counting and error injection.
type fakeImagery struct {
	*imagery.ImageryApiClientMock
	compositeErr  error
	reduceErr     error
	compositeHits int32
}

func newFakeImagery(monthly map[string]models.MonthlyResult, composite *models.CompositeResultFixture) *fakeImagery {
	return &fakeImagery{
		ImageryApiClientMock: imagery.NewImageryApiClientMockFromData(&models.MonthlyResultsFixture{Months: monthly}, composite),
	}
}

func (f *fakeImagery) MedianComposite(ctx context.Context, dates models.DateRange, region models.BoundingBox, profile models.ProxyProfile) (*imagery.Composite, error) {
	atomic.AddInt32(&f.compositeHits, 1)
	if f.compositeErr != nil {
		return nil, f.compositeErr
	}
	return f.ImageryApiClientMock.MedianComposite(ctx, dates, region, profile)
}

func (f *fakeImagery) ReduceMean(ctx context.Context, imageID, band string, region models.BoundingBox, scale int) (*float64, error) {
	if f.reduceErr != nil {
		return nil, f.reduceErr
	}
	return f.ImageryApiClientMock.ReduceMean(ctx, imageID, band, region, scale)
}

func (f *fakeImagery) ReducePercentile(ctx context.Context, imageID, band string, region models.BoundingBox, scale int, percentile int) (*float64, error) {
	if f.reduceErr != nil {
		return nil, f.reduceErr
	}
	return f.ImageryApiClientMock.ReducePercentile(ctx, imageID, band, region, scale, percentile)
}

func (f *fakeImagery) ReduceStats(ctx context.Context, imageID string, bands []string, region models.BoundingBox, scale int) (map[string]models.BandStats, error) {
	if f.reduceErr != nil {
		return nil, f.reduceErr
	}
	return f.ImageryApiClientMock.ReduceStats(ctx, imageID, bands, region, scale)
}

func (f *fakeImagery) composites() int {
	return int(atomic.LoadInt32(&f.compositeHits))
}
