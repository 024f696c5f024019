package handlers

import (
	"net/http"

	services "backwater-server/service"
)

// RefreshResponse reports how many cached results were dropped.
type RefreshResponse struct {
	Cleared int `json:"cleared"`
}

type RefreshHandler struct {
	refreshService *services.RefreshService
}

func NewRefreshHandler(refreshService *services.RefreshService) *RefreshHandler {
	return &RefreshHandler{refreshService: refreshService}
}

// Refresh clears every cached report so the next request recomputes.
func (h *RefreshHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.refreshService.Refresh(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Cleared: cleared})
}

func (h *RefreshHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
