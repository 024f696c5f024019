package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backwater-server/db"
	"backwater-server/models"
)

func sampleTrendReport() models.TrendReport {
	return models.TrendReport{
		Region:  models.NewBoundingBox(76.255, 9.905, 76.270, 9.915),
		Profile: "ratio-v2",
		Series: models.Series{
			Rows: []models.MonthlyObservation{
				{Month: "2024-06", ChlorophyllIndex: models.Float(0.2), TurbidityIndex: nil, IsMonsoon: true},
				{Month: "2024-07", ChlorophyllIndex: nil, TurbidityIndex: models.Float(0.5), IsMonsoon: true},
			},
			MonsoonRuns: []models.MonsoonRun{{StartPos: 0, EndPos: 1}},
		},
		HasData:     true,
		Alerts:      models.AlertSummary{TurbidityAlertCount: 1},
		GeneratedAt: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRedisReportDAO_SetAndGetReport(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisReportDAO(mockClient)
	key := ReportKey(TREND_KEY_PREFIX, "abc")
	report := sampleTrendReport()

	require.NoError(t, dao.SetReport(key, report, time.Hour))

	var got models.TrendReport
	found, err := dao.GetReport(key, &got)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, report.Series.MonsoonRuns, got.Series.MonsoonRuns)
	assert.Nil(t, got.Series.Rows[0].TurbidityIndex)
	assert.Nil(t, got.Series.Rows[1].ChlorophyllIndex)
	assert.InDelta(t, 0.5, *got.Series.Rows[1].TurbidityIndex, 1e-12)
	assert.True(t, report.GeneratedAt.Equal(got.GeneratedAt))
}

func TestRedisReportDAO_GetReport_Missing(t *testing.T) {
	dao := NewRedisReportDAO(db.NewMockRedisClient(context.Background()))

	var got models.TrendReport
	found, err := dao.GetReport(ReportKey(TREND_KEY_PREFIX, "missing"), &got)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisReportDAO_GetReport_Expired(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	now := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	mockClient.SetClock(func() time.Time { return now })
	dao := NewRedisReportDAO(mockClient)
	key := ReportKey(TREND_KEY_PREFIX, "abc")

	require.NoError(t, dao.SetReport(key, sampleTrendReport(), time.Hour))
	now = now.Add(2 * time.Hour)

	var got models.TrendReport
	found, err := dao.GetReport(key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisReportDAO_GetReport_Corrupt(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisReportDAO(mockClient)
	key := ReportKey(TREND_KEY_PREFIX, "bad")
	require.NoError(t, mockClient.Set(key, "\xc1", 0))

	var got models.TrendReport
	found, err := dao.GetReport(key, &got)

	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisReportDAO_DeleteAll(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisReportDAO(mockClient)

	require.NoError(t, dao.SetReport(ReportKey(TREND_KEY_PREFIX, "a"), sampleTrendReport(), time.Hour))
	require.NoError(t, dao.SetReport(ReportKey(COMPOSITE_KEY_PREFIX, "b"), models.CompositeReport{ImageCount: 3}, 0))
	require.NoError(t, dao.SetReport(ReportKey(LAYERS_KEY_PREFIX, "c"), models.LayerReport{Selection: "multi"}, 0))
	require.NoError(t, mockClient.Set("unrelated", "x", 0))

	deleted, err := dao.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	keys, err := mockClient.Keys("*")
	require.NoError(t, err)
	assert.Equal(t, []string{"unrelated"}, keys)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, TREND_KEY_PREFIX, KindOf(ReportKey(TREND_KEY_PREFIX, "abc")))
	assert.Equal(t, "plain", KindOf("plain"))
}

func TestRedisReportDAO_GetReport_TimesComeBackInUTC(t *testing.T) {
	previous := time.Local
	time.Local = time.FixedZone("IST", 5*3600+1800)
	t.Cleanup(func() { time.Local = previous })

	dao := NewRedisReportDAO(db.NewMockRedisClient(context.Background()))

	trend := sampleTrendReport()
	trend.Window = models.AnalysisWindow{
		Start:      time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		MonthCount: 12,
	}
	trendKey := ReportKey(TREND_KEY_PREFIX, "utc")
	require.NoError(t, dao.SetReport(trendKey, trend, time.Hour))

	var gotTrend models.TrendReport
	found, err := dao.GetReport(trendKey, &gotTrend)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, time.UTC, gotTrend.Window.Start.Location())
	assert.Equal(t, time.UTC, gotTrend.Window.End.Location())
	assert.Equal(t, time.UTC, gotTrend.GeneratedAt.Location())
	assert.Equal(t, "2023-04", gotTrend.Window.Start.Format(models.MonthLayout))

	wantJSON, err := json.Marshal(trend.Window)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(gotTrend.Window)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))

	composite := models.CompositeReport{
		Months:      3,
		DateRange:   models.DateRange{From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		GeneratedAt: time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC),
	}
	compositeKey := ReportKey(COMPOSITE_KEY_PREFIX, "utc")
	require.NoError(t, dao.SetReport(compositeKey, composite, time.Hour))

	var gotComposite models.CompositeReport
	found, err = dao.GetReport(compositeKey, &gotComposite)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, time.UTC, gotComposite.DateRange.From.Location())
	assert.Equal(t, time.UTC, gotComposite.DateRange.To.Location())
	assert.Equal(t, "2024-01-01", gotComposite.DateRange.From.Format("2006-01-02"))
	assert.Equal(t, time.UTC, gotComposite.GeneratedAt.Location())
}
