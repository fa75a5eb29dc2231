package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rahul4902/blood-sub001/internal/catalog"
)

type validationResponse struct {
	Error  string                   `json:"error"`
	Fields catalog.ValidationErrors `json:"fields"`
}

func (h *Handler) ListTests(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.ListTests(r.Context(), catalog.ParseFilter(r.URL.Query()))
	if err != nil {
		h.log.Warn("list tests", zap.Error(err))
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	t, err := h.catalog.GetTestBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) CreateTest(w http.ResponseWriter, r *http.Request) {
	var f catalog.Form
	if !decode(w, r, &f) {
		return
	}
	if errs := f.Validate(); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: "invalid test", Fields: errs})
		return
	}
	t, err := h.catalog.CreateTest(r.Context(), f.Input())
	if err != nil {
		h.log.Warn("create test", zap.String("slug", f.Slug), zap.Error(err))
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTest(w http.ResponseWriter, r *http.Request) {
	var f catalog.Form
	if !decode(w, r, &f) {
		return
	}
	if errs := f.ValidatePartial(); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: "invalid test", Fields: errs})
		return
	}
	id := chi.URLParam(r, "id")
	t, err := h.catalog.UpdateTest(r.Context(), id, f.Input())
	if err != nil {
		h.log.Warn("update test", zap.String("id", id), zap.Error(err))
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.DeleteTest(r.Context(), id); err != nil {
		h.log.Warn("delete test", zap.String("id", id), zap.Error(err))
		writeUpstreamError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetTestStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status catalog.Status `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeError(w, r, http.StatusBadRequest, "status must be active or inactive")
		return
	}
	t, err := h.catalog.SetTestStatus(r.Context(), chi.URLParam(r, "slug"), req.Status)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
