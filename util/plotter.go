package util

import (
	"backwater-server/models"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	TREND_PAGE_TITLE = "Vembanad Lake Water Quality"
	MONSOON_LABEL    = "Monsoon"
	MONSOON_COLOR    = "rgba(173,216,230,0.2)"
	MISSING_VALUE    = "-"

	chlorophyllColor = "#2ca02c"
	turbidityColor   = "#8c564b"
	thresholdColor   = "#d62728"
	overlayColor     = "#1f77b4"
	trendColor       = "#7f7f7f"
)

// TrendChart is everything the trend page draws. Rolling means are computed
// by the caller so this package stays free of analysis code.
type TrendChart struct {
	Report             *models.TrendReport
	ChlorophyllRolling []*float64
	TurbidityRolling   []*float64
	RollingWindow      int
}

type metricPanel struct {
	title     string
	axisName  string
	color     string
	values    []*float64
	rolling   []*float64
	trend     *models.TrendLine
	elevated  float64
	high      float64
	skipEmpty bool
}

// RenderTrendPage writes an HTML page with one line chart per metric. Monsoon
// runs are shaded and the Elevated/High cutoffs drawn as dashed lines.
func RenderTrendPage(w io.Writer, chart TrendChart) error {
	report := chart.Report
	if report == nil {
		return fmt.Errorf("trend chart has no report")
	}
	months := report.Series.Months()
	th := report.Thresholds

	panels := []metricPanel{
		{
			title:     "Chlorophyll Index (NDCI)",
			axisName:  "NDCI",
			color:     chlorophyllColor,
			values:    report.Series.Chlorophyll(),
			rolling:   chart.ChlorophyllRolling,
			trend:     report.ChlorophyllTrend,
			elevated:  th.ChlorophyllElevated,
			high:      th.ChlorophyllHigh,
			skipEmpty: true,
		},
		{
			title:    fmt.Sprintf("Turbidity Index (%s)", report.Profile),
			axisName: "Turbidity",
			color:    turbidityColor,
			values:   report.Series.Turbidity(),
			rolling:  chart.TurbidityRolling,
			trend:    report.TurbidityTrend,
			elevated: th.TurbidityElevated,
			high:     th.TurbidityHigh,
		},
	}

	page := components.NewPage()
	page.SetPageTitle(TREND_PAGE_TITLE)
	for _, p := range panels {
		// The chlorophyll panel is omitted when the column is entirely empty.
		if p.skipEmpty && !report.Series.HasChlorophyll() {
			continue
		}
		page.AddCharts(buildMetricChart(p, months, report, chart.RollingWindow))
	}
	return page.Render(w)
}

func buildMetricChart(p metricPanel, months []string, report *models.TrendReport, rollingWindow int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: TREND_PAGE_TITLE,
			Width:     "1000px",
			Height:    "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    p.title,
			Subtitle: fmt.Sprintf("%s, %s", report.Window, report.Region),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Month"}),
		charts.WithYAxisOpts(opts.YAxis{Name: p.axisName}),
	)
	line.SetXAxis(months)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: p.color, Width: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: p.color}),
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: string(models.LevelElevated), YAxis: p.elevated},
			opts.MarkLineNameYAxisItem{Name: string(models.LevelHigh), YAxis: p.high},
		),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			LineStyle: &opts.LineStyle{Type: "dashed", Color: thresholdColor},
		}),
	}
	for _, run := range report.Series.MonsoonRuns {
		if run.StartPos < 0 || run.EndPos >= len(months) {
			continue
		}
		seriesOpts = append(seriesOpts, charts.WithMarkAreaData([]opts.MarkAreaData{
			{
				Name:  MONSOON_LABEL,
				XAxis: months[run.StartPos],
				MarkAreaStyle: opts.MarkAreaStyle{
					ItemStyle: &opts.ItemStyle{Color: MONSOON_COLOR},
				},
			},
			{XAxis: months[run.EndPos]},
		}))
	}
	line.AddSeries(p.axisName, lineData(p.values), seriesOpts...)

	if len(p.rolling) == len(months) && rollingWindow > 1 {
		line.AddSeries(fmt.Sprintf("%d-month rolling mean", rollingWindow), lineData(p.rolling),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false), ConnectNulls: opts.Bool(true)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: overlayColor, Width: 1.5}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: overlayColor}),
		)
	}

	if p.trend != nil {
		line.AddSeries(fmt.Sprintf("Trend (%s)", p.trend.Direction), trendData(p.trend, len(months)),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: trendColor, Width: 1, Type: "dashed"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: trendColor}),
		)
	}

	return line
}

// lineData maps missing values to "-" so ECharts leaves a gap.
func lineData(values []*float64) []opts.LineData {
	out := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		if v == nil {
			out = append(out, opts.LineData{Value: MISSING_VALUE})
			continue
		}
		out = append(out, opts.LineData{Value: *v})
	}
	return out
}

func trendData(t *models.TrendLine, n int) []opts.LineData {
	out := make([]opts.LineData, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, opts.LineData{Value: t.Intercept + t.Slope*float64(i)})
	}
	return out
}

// RenderRegionMap writes an HTML geo chart marking the corners of the region.
func RenderRegionMap(w io.Writer, region models.BoundingBox) error {
	labels := []string{"SW", "NW", "NE", "SE"}
	corners := region.Corners()

	points := make([]opts.GeoData, 0, len(corners)+1)
	for i, c := range corners {
		points = append(points, opts.GeoData{Name: labels[i], Value: []float64{c[0], c[1]}})
	}
	points = append(points, points[0]) // Close the polygon.

	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Analysis Area",
			Width:     "800px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Analysis Area", Subtitle: region.String()}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
	)
	geo.AddSeries("Region", types.ChartScatter, points,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}",
		}),
	)
	return geo.Render(w)
}
