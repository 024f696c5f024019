package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"backwater-server/config"
	"backwater-server/export"
	"backwater-server/log"
	"backwater-server/metrics"
	"backwater-server/models"
	services "backwater-server/service"
	"backwater-server/util"
)

const MAX_ROLLING_WINDOW = 12

// TrendHandler serves the trend tab: JSON report, chart page and downloads.
type TrendHandler struct {
	waterQualityService *services.WaterQualityService
	now                 func() time.Time
}

func NewTrendHandler(waterQualityService *services.WaterQualityService) *TrendHandler {
	return &TrendHandler{waterQualityService: waterQualityService, now: time.Now}
}

func (h *TrendHandler) parseTrendRequest(vals url.Values) (services.TrendRequest, error) {
	region, err := parseRegion(vals, HotspotRegion)
	if err != nil {
		return services.TrendRequest{}, err
	}
	years, err := parseArgInt(vals, YEARS_QUERY_ARG, config.TREND_YEARS_DEFAULT)
	if err != nil {
		return services.TrendRequest{}, err
	}
	return services.TrendRequest{
		Region:  region,
		Years:   years,
		Profile: vals.Get(PROFILE_QUERY_ARG),
		Now:     h.now(),
	}, nil
}

func (h *TrendHandler) trend(r *http.Request) (*models.TrendReport, error) {
	req, err := h.parseTrendRequest(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return h.waterQualityService.Trend(r.Context(), req)
}

// GetTrend expects ?min_lon&min_lat&max_lon&max_lat&years&profile, all optional.
func (h *TrendHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	report, err := h.trend(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetTrendChart renders the report as an HTML page. ?window sets the
// rolling-mean width in months.
func (h *TrendHandler) GetTrendChart(w http.ResponseWriter, r *http.Request) {
	rolling, err := parseArgInt(r.URL.Query(), WINDOW_QUERY_ARG, DEFAULT_ROLLING_WINDOW)
	if err == nil && (rolling < 1 || rolling > MAX_ROLLING_WINDOW) {
		err = fmt.Errorf("%w: %s must be within 1-%d", models.ErrInvalidArgument, WINDOW_QUERY_ARG, MAX_ROLLING_WINDOW)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.trend(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = util.RenderTrendPage(&buf, util.TrendChart{
		Report:             report,
		ChlorophyllRolling: services.RollingMean(report.Series.Chlorophyll(), rolling),
		TurbidityRolling:   services.RollingMean(report.Series.Turbidity(), rolling),
		RollingWindow:      rolling,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ExportTrend streams the monthly table as ?format=csv|xlsx|pdf.
func (h *TrendHandler) ExportTrend(w http.ResponseWriter, r *http.Request) {
	rawFormat := r.URL.Query().Get(FORMAT_QUERY_ARG)
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		metrics.IncExport(rawFormat, metrics.ResultError)
		writeError(w, r, err)
		return
	}
	report, err := h.trend(r)
	if err != nil {
		metrics.IncExport(string(format), metrics.ResultError)
		writeError(w, r, err)
		return
	}
	body, err := export.Build(format, report)
	if err != nil {
		metrics.IncExport(string(format), metrics.ResultError)
		writeError(w, r, err)
		return
	}
	metrics.IncExport(string(format), metrics.ResultSuccess)
	log.Infof("[TrendHandler] exported %d months as %s", report.Series.Len(), format)

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(format, h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
