package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rahul4902/blood-sub001/internal/clients"
	"github.com/rahul4902/blood-sub001/internal/middleware"
	"github.com/rahul4902/blood-sub001/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeUpstreamError passes backend 4xx responses through and reports
// anything else as a bad gateway.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, clients.ErrInvalidPathSegment) {
		writeError(w, r, http.StatusBadRequest, "invalid id or slug")
		return
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		writeError(w, r, apiErr.Status, msg)
		return
	}
	writeError(w, r, http.StatusBadGateway, "backend unavailable")
}
