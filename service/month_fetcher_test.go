package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backwater-server/config"
	"backwater-server/models"
)

func TestFetchMonth(t *testing.T) {
	api := newFakeImagery(map[string]models.MonthlyResult{
		"2024-01": {ImageCount: 4, Ndci: f(0.12), Turbidity: f(0.41)},
	}, nil)
	fetcher := NewMonthFetcher(api, config.DefaultProfiles[0])

	obs, err := fetcher.FetchMonth(context.Background(), jan2024, hotspot)

	require.NoError(t, err)
	assert.Equal(t, "2024-01", obs.Month)
	assert.InDelta(t, 0.12, *obs.ChlorophyllIndex, 1e-12)
	assert.InDelta(t, 0.41, *obs.TurbidityIndex, 1e-12)
}

func TestFetchMonth_NoImagesIsMissingNotZero(t *testing.T) {
	api := newFakeImagery(map[string]models.MonthlyResult{
		"2024-01": {ImageCount: 0},
	}, nil)
	fetcher := NewMonthFetcher(api, config.DefaultProfiles[0])

	obs, err := fetcher.FetchMonth(context.Background(), jan2024, hotspot)

	require.NoError(t, err)
	assert.Nil(t, obs.ChlorophyllIndex)
	assert.Nil(t, obs.TurbidityIndex)
}

func TestFetchMonth_EmptyWaterMask(t *testing.T) {
	api := newFakeImagery(map[string]models.MonthlyResult{
		"2024-01": {ImageCount: 2, Ndci: nil, Turbidity: f(0.3)},
	}, nil)
	fetcher := NewMonthFetcher(api, config.DefaultProfiles[0])

	obs, err := fetcher.FetchMonth(context.Background(), jan2024, hotspot)

	require.NoError(t, err)
	assert.Nil(t, obs.ChlorophyllIndex)
	assert.NotNil(t, obs.TurbidityIndex)
}

func TestFetchMonth_Errors(t *testing.T) {
	boom := errors.New("boom")

	api := newFakeImagery(nil, nil)
	api.compositeErr = boom
	_, err := NewMonthFetcher(api, config.DefaultProfiles[0]).FetchMonth(context.Background(), jan2024, hotspot)
	assert.ErrorIs(t, err, boom)

	api = newFakeImagery(map[string]models.MonthlyResult{"2024-01": {ImageCount: 1}}, nil)
	api.reduceErr = boom
	obs, err := NewMonthFetcher(api, config.DefaultProfiles[0]).FetchMonth(context.Background(), jan2024, hotspot)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, obs.ChlorophyllIndex)
}
