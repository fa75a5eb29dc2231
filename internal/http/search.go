package httpapi

import (
	"net/http"
	"strings"

	"github.com/rahul4902/blood-sub001/internal/search"
)

func (h *Handler) SearchView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.search.View())
}

// SearchType feeds one keystroke's worth of input. The lookup itself runs
// after the debounce delay; poll the view for results.
func (h *Handler) SearchType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.search.Type(req.Query)
	writeJSON(w, http.StatusAccepted, h.search.View())
}

func (h *Handler) SearchClear(w http.ResponseWriter, r *http.Request) {
	h.search.Clear()
	writeJSON(w, http.StatusOK, h.search.View())
}

func (h *Handler) SearchSelect(w http.ResponseWriter, r *http.Request) {
	var sug search.Suggestion
	if !decode(w, r, &sug) {
		return
	}
	if strings.TrimSpace(sug.Slug) == "" {
		writeError(w, r, http.StatusBadRequest, "slug is required")
		return
	}
	h.search.Select(sug)
	writeJSON(w, http.StatusOK, map[string]string{"route": sug.Route()})
}

func (h *Handler) TakeNavigation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.nav.Take())
}
