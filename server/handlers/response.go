package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"backwater-server/log"
	"backwater-server/models"
)

const (
	GUIDANCE_NO_IMAGERY       = "No cloud-free imagery for this period. Try widening the time window."
	GUIDANCE_DATA_UNAVAILABLE = "The imagery service did not answer. Try a smaller region or shorter period."
	GUIDANCE_INVALID_INPUT    = "Check the request parameters."
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error    string `json:"error"`
	Guidance string `json:"guidance,omitempty"`
}

// StatusFor maps an error kind to its HTTP status and user guidance.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidRegion),
		errors.Is(err, models.ErrInvalidWindow),
		errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrUnknownProfile):
		return http.StatusBadRequest, GUIDANCE_INVALID_INPUT
	case errors.Is(err, models.ErrNoImagery):
		return http.StatusNotFound, GUIDANCE_NO_IMAGERY
	case errors.Is(err, models.ErrDataUnavailable):
		return http.StatusServiceUnavailable, GUIDANCE_DATA_UNAVAILABLE
	}
	return http.StatusInternalServerError, ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("[Handlers] Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, guidance := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Errorw("request failed", "path", r.URL.Path, "error", err)
		msg = "internal server error"
	} else {
		log.Warnf("[Handlers] %s: %v", r.URL.Path, err)
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Guidance: guidance})
}
