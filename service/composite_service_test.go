package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backwater-server/cache"
	"backwater-server/config"
	"backwater-server/dao/redis"
	"backwater-server/db"
	"backwater-server/models"
)

var lake = models.NewBoundingBox(76.25, 9.9, 76.45, 10.1)

func newResultCache() *cache.ResultCache {
	return cache.NewResultCache(redis.NewRedisReportDAO(db.NewMockRedisClient(context.Background())))
}

func compositeFixture() *models.CompositeResultFixture {
	return &models.CompositeResultFixture{
		ImageCount: 9,
		Stats: map[string]models.BandStats{
			"ndci":      {Mean: f(0.20), StdDev: f(0.05), Min: f(0.01), Max: f(0.4)},
			"turbidity": {Mean: f(0.50), StdDev: f(0.04), Min: f(0.3), Max: f(0.7)},
		},
		Percentiles: map[string]map[string]*float64{
			"turbidity": {"85": f(0.47)},
		},
	}
}

func newCompositeService(t *testing.T, api *fakeImagery) *CompositeService {
	t.Helper()
	profiles, err := config.NewProfileRegistry("ratio-v2")
	require.NoError(t, err)
	return NewCompositeService(api, profiles, NewResolver(validRange), newResultCache(), time.Hour)
}

func TestSummarize(t *testing.T) {
	api := newFakeImagery(nil, compositeFixture())
	svc := newCompositeService(t, api)
	now := time.Date(2024, 4, 17, 0, 0, 0, 0, time.UTC)

	report, err := svc.Summarize(context.Background(), CompositeRequest{Region: lake, Months: 3, Now: now})

	require.NoError(t, err)
	assert.Equal(t, 9, report.ImageCount)
	assert.Equal(t, "ratio-v2", report.Profile)
	assert.Equal(t, time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC), report.DateRange.From)
	assert.Equal(t, now, report.DateRange.To)
	assert.InDelta(t, 0.20, *report.Chlorophyll.Mean, 1e-12)
	assert.Equal(t, models.LevelElevated, report.Chlorophyll.Level)
	assert.Equal(t, models.LevelHigh, report.Turbidity.Level)
	require.NotNil(t, report.Area)
	assert.Equal(t, "Analysis Area", report.Area.Properties["name"])
}

func TestSummarize_Cached(t *testing.T) {
	api := newFakeImagery(nil, compositeFixture())
	svc := newCompositeService(t, api)
	req := CompositeRequest{Region: lake, Months: 3, Now: time.Date(2024, 4, 17, 0, 0, 0, 0, time.UTC)}

	first, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, api.composites())
	assert.Equal(t, first.ImageCount, second.ImageCount)
	assert.NotNil(t, second.Area)
}

func TestSummarize_NoImagery(t *testing.T) {
	svc := newCompositeService(t, newFakeImagery(nil, &models.CompositeResultFixture{}))

	_, err := svc.Summarize(context.Background(), CompositeRequest{Region: lake, Months: 1, Now: time.Now()})

	assert.ErrorIs(t, err, models.ErrNoImagery)
}

func TestSummarize_ServiceDown(t *testing.T) {
	api := newFakeImagery(nil, compositeFixture())
	api.compositeErr = errors.New("connection refused")
	svc := newCompositeService(t, api)

	_, err := svc.Summarize(context.Background(), CompositeRequest{Region: lake, Months: 1, Now: time.Now()})

	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestSummarize_InvalidInput(t *testing.T) {
	svc := newCompositeService(t, newFakeImagery(nil, compositeFixture()))
	now := time.Now()

	_, err := svc.Summarize(context.Background(), CompositeRequest{Region: lake, Months: 7, Now: now})
	assert.ErrorIs(t, err, models.ErrInvalidWindow)

	_, err = svc.Summarize(context.Background(), CompositeRequest{Region: lake, Months: 0, Now: now})
	assert.ErrorIs(t, err, models.ErrInvalidWindow)

	_, err = svc.Summarize(context.Background(), CompositeRequest{Region: models.NewBoundingBox(80, 9, 81, 10), Months: 3, Now: now})
	assert.ErrorIs(t, err, models.ErrInvalidRegion)

	_, err = svc.Summarize(context.Background(), CompositeRequest{Region: lake, Months: 3, Profile: "nope", Now: now})
	assert.ErrorIs(t, err, models.ErrUnknownProfile)
}

func TestLayers_Single(t *testing.T) {
	svc := newCompositeService(t, newFakeImagery(nil, compositeFixture()))
	req := CompositeRequest{Region: lake, Months: 3, Now: time.Now()}

	report, err := svc.Layers(context.Background(), req, LAYER_EUTROPHICATION, 0.7)

	require.NoError(t, err)
	require.Len(t, report.Layers, 1)
	layer := report.Layers[0]
	assert.Equal(t, "ndci", layer.Band)
	assert.Equal(t, []float64{0.05, 0.15, 0.25}, layer.Classes)
	assert.Len(t, layer.Palette, 4)
	assert.InDelta(t, 0.7, layer.Opacity, 1e-12)
}

func TestLayers_Multi(t *testing.T) {
	svc := newCompositeService(t, newFakeImagery(nil, compositeFixture()))
	req := CompositeRequest{Region: lake, Months: 3, Now: time.Now()}

	report, err := svc.Layers(context.Background(), req, LAYER_MULTI, 1.0)

	require.NoError(t, err)
	require.Len(t, report.Layers, 3)
	assert.InDelta(t, 0.8, report.Layers[0].Opacity, 1e-12)
	assert.InDelta(t, 0.7, report.Layers[1].Opacity, 1e-12)
	assert.InDelta(t, 0.7, report.Layers[2].Opacity, 1e-12)

	require.NotNil(t, report.Layers[1].Threshold)
	assert.InDelta(t, 0.47, *report.Layers[1].Threshold, 1e-12)
	// no recorded NIR percentile: the floating layer is empty
	assert.Nil(t, report.Layers[2].Threshold)
}

func TestLayers_InvalidArguments(t *testing.T) {
	svc := newCompositeService(t, newFakeImagery(nil, compositeFixture()))
	req := CompositeRequest{Region: lake, Months: 3, Now: time.Now()}

	_, err := svc.Layers(context.Background(), req, LAYER_TURBIDITY, 1.2)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = svc.Layers(context.Background(), req, "sediment", 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestEutrophicationClass(t *testing.T) {
	assert.Equal(t, 1, EutrophicationClass(0.05))
	assert.Equal(t, 2, EutrophicationClass(0.10))
	assert.Equal(t, 3, EutrophicationClass(0.25))
	assert.Equal(t, 4, EutrophicationClass(0.26))
}
