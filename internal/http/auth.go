package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/rahul4902/blood-sub001/internal/auth"
	"github.com/rahul4902/blood-sub001/internal/model"
)

// sessionView leaves the token itself out; callers go through this API.
type sessionView struct {
	Authenticated bool        `json:"authenticated"`
	TokenExpiry   *time.Time  `json:"tokenExpiry,omitempty"`
	User          *model.User `json:"user"`
}

func (h *Handler) writeSession(w http.ResponseWriter, status int) {
	s := h.auth.Session()
	v := sessionView{Authenticated: s.Authenticated(), User: s.User}
	if !s.TokenExpiry.IsZero() {
		exp := s.TokenExpiry
		v.TokenExpiry = &exp
	}
	writeJSON(w, status, v)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	h.writeSession(w, http.StatusOK)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decode(w, r, &creds) {
		return
	}
	h.writeAuthResult(w, r, h.auth.Login(r.Context(), creds))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if !decode(w, r, &reg) {
		return
	}
	h.writeAuthResult(w, r, h.auth.Register(r.Context(), reg))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.writeAuthResult(w, r, h.auth.RefreshAccessToken(r.Context()))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	writeJSON(w, http.StatusOK, auth.Result{Success: true})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.auth.FetchUserProfile(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, u)
	case errors.Is(err, auth.ErrNotAuthenticated):
		writeError(w, r, http.StatusUnauthorized, "not logged in")
	default:
		writeUpstreamError(w, r, err)
	}
}

func (h *Handler) writeAuthResult(w http.ResponseWriter, r *http.Request, res auth.Result) {
	if !res.Success {
		writeJSON(w, http.StatusUnauthorized, res)
		return
	}
	h.writeSession(w, http.StatusOK)
}
