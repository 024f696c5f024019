package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type TrendHandler interface {
	GetTrend(w http.ResponseWriter, r *http.Request)
	GetTrendChart(w http.ResponseWriter, r *http.Request)
	ExportTrend(w http.ResponseWriter, r *http.Request)
}

type CompositeHandler interface {
	GetComposite(w http.ResponseWriter, r *http.Request)
	GetLayers(w http.ResponseWriter, r *http.Request)
	GetRegionMap(w http.ResponseWriter, r *http.Request)
}

type RefreshHandler interface {
	Refresh(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	trendHandler     TrendHandler
	compositeHandler CompositeHandler
	refreshHandler   RefreshHandler
	router           *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	trendHandler TrendHandler,
	compositeHandler CompositeHandler,
	refreshHandler RefreshHandler,
	router *mux.Router) *Router {
	return &Router{
		trendHandler:     trendHandler,
		compositeHandler: compositeHandler,
		refreshHandler:   refreshHandler,
		router:           router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(RequestID, RequestLogger, Recovery)

	r.router.HandleFunc("/ping", r.refreshHandler.Ping).Methods("GET")

	// expects ?min_lon&min_lat&max_lon&max_lat&years&profile, defaulting to the hotspot
	r.router.HandleFunc("/v1/trend", r.trendHandler.GetTrend).Methods("GET")
	r.router.HandleFunc("/v1/trend/chart", r.trendHandler.GetTrendChart).Methods("GET")
	r.router.HandleFunc("/v1/trend/export", r.trendHandler.ExportTrend).Methods("GET")

	// expects ?min_lon&min_lat&max_lon&max_lat&months&profile, defaulting to the whole lake
	r.router.HandleFunc("/v1/composite", r.compositeHandler.GetComposite).Methods("GET")
	r.router.HandleFunc("/v1/composite/layers", r.compositeHandler.GetLayers).Methods("GET")
	r.router.HandleFunc("/v1/region/map", r.compositeHandler.GetRegionMap).Methods("GET")

	r.router.HandleFunc("/v1/refresh", r.refreshHandler.Refresh).Methods("POST")

	r.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}
