package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"backwater-server/config"
	services "backwater-server/service"
	"backwater-server/util"
)

// CompositeHandler serves the map tab.
type CompositeHandler struct {
	compositeService *services.CompositeService
	now              func() time.Time
}

func NewCompositeHandler(compositeService *services.CompositeService) *CompositeHandler {
	return &CompositeHandler{compositeService: compositeService, now: time.Now}
}

func (h *CompositeHandler) parseCompositeRequest(vals url.Values) (services.CompositeRequest, error) {
	region, err := parseRegion(vals, LakeRegion)
	if err != nil {
		return services.CompositeRequest{}, err
	}
	months, err := parseArgInt(vals, MONTHS_QUERY_ARG, config.COMPOSITE_MONTHS_DEFAULT)
	if err != nil {
		return services.CompositeRequest{}, err
	}
	return services.CompositeRequest{
		Region:  region,
		Months:  months,
		Profile: vals.Get(PROFILE_QUERY_ARG),
		Now:     h.now(),
	}, nil
}

// GetComposite expects ?min_lon&min_lat&max_lon&max_lat&months&profile, all optional.
func (h *CompositeHandler) GetComposite(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseCompositeRequest(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.compositeService.Summarize(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetLayers additionally accepts ?layer=eutrophication|turbidity|floating|multi&opacity.
func (h *CompositeHandler) GetLayers(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	req, err := h.parseCompositeRequest(vals)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opacity, err := parseArgFloat64Default(vals, OPACITY_QUERY_ARG, config.LAYER_OPACITY_DEFAULT)
	if err != nil {
		writeError(w, r, err)
		return
	}
	layer := vals.Get(LAYER_QUERY_ARG)
	if layer == "" {
		layer = services.LAYER_EUTROPHICATION
	}
	report, err := h.compositeService.Layers(r.Context(), req, layer, opacity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetRegionMap renders the analysis rectangle as an HTML map.
func (h *CompositeHandler) GetRegionMap(w http.ResponseWriter, r *http.Request) {
	region, err := parseRegion(r.URL.Query(), LakeRegion)
	if err == nil {
		err = h.compositeService.ValidateRegion(region)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := util.RenderRegionMap(&buf, region); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
