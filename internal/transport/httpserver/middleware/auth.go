package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bringlist/internal/domain/session"
	"bringlist/pkg/logger"
)

const (
	SessionCookieName = "admin_session"

	loginPath           = "/login"
	defaultRedirectPath = "/admin"
)

// SessionChecker is the part of session.Gate the middleware needs.
type SessionChecker interface {
	Check(value string) bool
	TTL() time.Duration
}

type SessionAuth struct {
	gate   SessionChecker
	secure bool
	log    logger.Logger
}

func NewSessionAuth(gate SessionChecker, secure bool, log logger.Logger) *SessionAuth {
	return &SessionAuth{
		gate:   gate,
		secure: secure,
		log:    log,
	}
}

// Authenticated reports whether the request carries a valid session cookie.
func (a *SessionAuth) Authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}
	return a.gate.Check(cookie.Value)
}

// RequireAPI answers 401 JSON to requests without a session.
func (a *SessionAuth) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authenticated(r) {
			a.log.BusinessError("auth: rejected request", session.ErrUnauthorized, "method", r.Method, "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "Non autorisé")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireForWrites lets reads through and guards everything else like
// RequireAPI.
func (a *SessionAuth) RequireForWrites(next http.Handler) http.Handler {
	guarded := a.RequireAPI(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			guarded.ServeHTTP(w, r)
		}
	})
}

// RequirePage sends visitors without a session to the login page, keeping
// the requested path in the redirect parameter.
func (a *SessionAuth) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authenticated(r) {
			target := loginPath + "?redirect=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie writes cred to the client. Expired credentials clear the
// cookie instead.
func (a *SessionAuth) SetSessionCookie(w http.ResponseWriter, cred session.Credential) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    cred.Value,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if cred.Expired() {
		cookie.Value = ""
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(a.gate.TTL().Seconds())
		cookie.Expires = cred.ExpiresAt.UTC()
	}
	http.SetCookie(w, cookie)
}

// SafeRedirectPath returns raw when it is a path on this site and
// "/admin" otherwise.
func SafeRedirectPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return defaultRedirectPath
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return defaultRedirectPath
	}
	return raw
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
