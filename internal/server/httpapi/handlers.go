package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/guard"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"github.com/dmitrijs2005/gophid/internal/server/validation"
)

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string             `json:"accessToken"`
	User        models.AccountView `json:"user"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeMappedError(w, r, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	in, err := validation.Register(req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		writeMappedError(w, r, err)
		return
	}

	result, err := h.identity.Register(r.Context(), in.Email, in.FirstName, in.LastName, in.Password)
	if err != nil {
		writeMappedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{AccessToken: result.AccessToken, User: result.Account})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeMappedError(w, r, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	email, err := validation.Login(req.Email, req.Password)
	if err != nil {
		writeMappedError(w, r, err)
		return
	}

	result, err := h.identity.Authenticate(r.Context(), services.LocalCredentials{Email: email, Password: req.Password})
	if err != nil {
		writeMappedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{AccessToken: result.AccessToken, User: result.Account})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	account, ok := guard.AccountFromContext(r.Context())
	if !ok {
		writeMappedError(w, r, common.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) googleStart(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, r, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	authURL, err := h.google.AuthURL(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "google auth url failed", "error", err)
		writeMappedError(w, r, err)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// googleCallback finishes the Google flow and hands the token to the
// frontend. Failures of any kind redirect to the frontend error page.
func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, r, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		h.logger.Warn(r.Context(), "google callback error", "error", e)
		h.redirectFrontend(w, r, "/auth/error", nil)
		return
	}

	assertion, err := h.google.Exchange(r.Context(), q.Get("code"), q.Get("state"))
	if err != nil {
		if errors.Is(err, common.ErrInvalidState) {
			h.logger.Warn(r.Context(), "google callback with invalid state")
		} else {
			h.logger.Error(r.Context(), "google exchange failed", "error", err)
		}
		h.redirectFrontend(w, r, "/auth/error", nil)
		return
	}

	result, err := h.identity.Authenticate(r.Context(), assertion)
	if err != nil {
		h.logger.Error(r.Context(), "google login failed", "error", err)
		h.redirectFrontend(w, r, "/auth/error", nil)
		return
	}

	h.redirectFrontend(w, r, "/auth/callback", url.Values{"token": {result.AccessToken}})
}

func (h *Handler) redirectFrontend(w http.ResponseWriter, r *http.Request, path string, query url.Values) {
	target := strings.TrimRight(h.frontendURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}
