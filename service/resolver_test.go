package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backwater-server/models"
)

var (
	validRange = models.NewBoundingBox(76.0, 9.0, 77.0, 11.0)
	hotspot    = models.NewBoundingBox(76.255, 9.905, 76.270, 9.915)
)

func TestResolve_Months(t *testing.T) {
	resolver := NewResolver(validRange)
	now := time.Date(2024, 4, 17, 15, 30, 0, 0, time.UTC)

	window, err := resolver.Resolve(hotspot, 3, models.LookbackMonth, now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), window.End)
	assert.Equal(t, 3, window.MonthCount)

	var labels []string
	for _, m := range window.Months() {
		labels = append(labels, m.Format(models.MonthLayout))
	}
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, labels)
}

func TestResolve_YearsAcrossYearBoundary(t *testing.T) {
	resolver := NewResolver(validRange)
	now := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	window, err := resolver.Resolve(hotspot, 2, models.LookbackYear, now)

	require.NoError(t, err)
	assert.Equal(t, 24, window.MonthCount)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, "2025-01", window.MonthStart(23).Format(models.MonthLayout))
}

func TestResolve_NonUTCNow(t *testing.T) {
	resolver := NewResolver(validRange)
	ist := time.FixedZone("IST", 5*3600+1800)
	// 1 May 02:00 IST is still 30 April in UTC.
	now := time.Date(2024, 5, 1, 2, 0, 0, 0, ist)

	window, err := resolver.Resolve(hotspot, 1, models.LookbackMonth, now)

	require.NoError(t, err)
	assert.Equal(t, "2024-03", window.Start.Format(models.MonthLayout))
}

func TestResolve_InvalidRegion(t *testing.T) {
	resolver := NewResolver(validRange)
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		bbox models.BoundingBox
	}{
		{"min lon not below max lon", models.NewBoundingBox(76.3, 9.9, 76.3, 10.0)},
		{"min lat above max lat", models.NewBoundingBox(76.2, 10.1, 76.3, 10.0)},
		{"outside valid range", models.NewBoundingBox(75.5, 9.9, 76.3, 10.0)},
		{"north of valid range", models.NewBoundingBox(76.2, 10.5, 76.3, 11.5)},
		{"nan corner", models.NewBoundingBox(math.NaN(), 9.9, 76.3, 10.0)},
		{"nan everywhere", models.NewBoundingBox(math.NaN(), math.NaN(), math.NaN(), math.NaN())},
		{"infinite corner", models.NewBoundingBox(76.2, 9.9, math.Inf(1), 10.0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(tc.bbox, 1, models.LookbackMonth, now)
			assert.ErrorIs(t, err, models.ErrInvalidRegion)
		})
	}
}

func TestResolve_InvalidLookback(t *testing.T) {
	resolver := NewResolver(validRange)
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	_, err := resolver.Resolve(hotspot, 0, models.LookbackMonth, now)
	assert.ErrorIs(t, err, models.ErrInvalidWindow)

	_, err = resolver.Resolve(hotspot, -2, models.LookbackYear, now)
	assert.ErrorIs(t, err, models.ErrInvalidWindow)

	_, err = resolver.Resolve(hotspot, 2, models.LookbackUnit("week"), now)
	assert.ErrorIs(t, err, models.ErrInvalidWindow)
}
