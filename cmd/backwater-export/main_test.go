package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backwater-server/config"
	"backwater-server/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:      "test",
		Fetch:    config.FetchConfig{Timeout: time.Second, Concurrency: 3},
		Profiles: config.ProfilesConfig{Path: "../../resources/proxy_profiles.yaml", Active: "ratio-v2"},
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil)

	require.NoError(t, err)
	assert.Equal(t, models.NewBoundingBox(config.HOTSPOT_MIN_LON, config.HOTSPOT_MIN_LAT, config.HOTSPOT_MAX_LON, config.HOTSPOT_MAX_LAT), opts.region)
	assert.Equal(t, config.TREND_YEARS_DEFAULT, opts.years)
	assert.Equal(t, "csv", opts.format)
	assert.False(t, opts.useMock)
}

func TestParseFlags_RejectsYears(t *testing.T) {
	_, err := parseFlags([]string{"-years", "6"})

	assert.ErrorIs(t, err, models.ErrInvalidWindow)
}

func TestRun_WritesCSVFromFixtures(t *testing.T) {
	opts, err := parseFlags([]string{"-mock", "-quiet", "-years", "1", "-out", t.TempDir(), "-fixtures", "../../resources"})
	require.NoError(t, err)
	opts.now = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	path, err := run(context.Background(), testConfig(), opts)

	require.NoError(t, err)
	assert.Equal(t, "vembanad_water_quality_2025-01-15.csv", filepath.Base(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "month,chlorophyll_index,turbidity_index", lines[0])
	assert.Equal(t, "2024-08,,", lines[8])
}

func TestRun_UnknownProfile(t *testing.T) {
	opts, err := parseFlags([]string{"-mock", "-quiet", "-profile", "nope", "-out", t.TempDir()})
	require.NoError(t, err)

	_, err = run(context.Background(), testConfig(), opts)

	assert.ErrorIs(t, err, models.ErrUnknownProfile)
}

func TestRun_UnknownFormat(t *testing.T) {
	opts, err := parseFlags([]string{"-mock", "-quiet", "-format", "doc"})
	require.NoError(t, err)

	_, err = run(context.Background(), testConfig(), opts)

	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
