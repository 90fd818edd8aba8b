package common

import (
	"errors"
	"net/http"

	"bringlist/internal/domain/session"
)

type loginRequest struct {
	Password string `json:"password"`
}

type sessionStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login checks the admin password and sets the session cookie.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.BusinessError("auth.login: invalid body", err)
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	cred, err := h.Gate.Authenticate(req.Password)
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			h.log.BusinessError("auth.login: wrong password", err)
			writeError(w, http.StatusUnauthorized, "Mot de passe incorrect")
			return
		}
		h.log.InternalError("auth.login: issue credential failed", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne")
		return
	}

	h.Sessions.SetSessionCookie(w, cred)
	WriteSuccess(w)
}

func (h *Handlers) SessionStatus(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Authenticated(r) {
		writeJSON(w, http.StatusUnauthorized, sessionStatusResponse{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, sessionStatusResponse{Authenticated: true})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.SetSessionCookie(w, h.Gate.Revoke())
	WriteSuccess(w)
}
