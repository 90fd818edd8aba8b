package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bringlist/internal/domain/session"
	"bringlist/pkg/logger"
	"github.com/stretchr/testify/assert"
)

type stubGate struct {
	valid string
}

func (g stubGate) Check(value string) bool {
	return value != "" && value == g.valid
}

func (g stubGate) TTL() time.Duration {
	return time.Hour
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireForWrites(t *testing.T) {
	auth := NewSessionAuth(stubGate{valid: "good"}, false, logger.Nop())
	h := auth.RequireForWrites(okHandler())

	cases := []struct {
		method string
		cookie string
		want   int
	}{
		{http.MethodGet, "", http.StatusOK},
		{http.MethodHead, "", http.StatusOK},
		{http.MethodPost, "", http.StatusUnauthorized},
		{http.MethodPut, "bad", http.StatusUnauthorized},
		{http.MethodDelete, "good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, "/api/items", nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tc.cookie})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "%s with %q", tc.method, tc.cookie)
	}
}

func TestRequirePageKeepsQuery(t *testing.T) {
	auth := NewSessionAuth(stubGate{valid: "good"}, false, logger.Nop())
	h := auth.RequirePage(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/items?tab=2", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fadmin%2Fitems%3Ftab%3D2", rec.Header().Get("Location"))
}

func TestSetSessionCookie(t *testing.T) {
	auth := NewSessionAuth(stubGate{}, true, logger.Nop())

	rec := httptest.NewRecorder()
	auth.SetSessionCookie(rec, session.Credential{Value: "token", ExpiresAt: time.Now().Add(time.Hour)})
	issued := rec.Result().Cookies()[0]
	assert.Equal(t, "token", issued.Value)
	assert.Equal(t, 3600, issued.MaxAge)
	assert.True(t, issued.Secure)
	assert.True(t, issued.HttpOnly)
	assert.Equal(t, "/", issued.Path)

	rec = httptest.NewRecorder()
	auth.SetSessionCookie(rec, session.Credential{ExpiresAt: time.Unix(0, 0)})
	cleared := rec.Result().Cookies()[0]
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestSafeRedirectPath(t *testing.T) {
	cases := map[string]string{
		"":                       "/admin",
		"/admin":                 "/admin",
		"/list/abc?x=1":          "/list/abc?x=1",
		"//evil.example":         "/admin",
		"https://evil.example/a": "/admin",
		"/\\evil.example":        "/admin",
		"admin":                  "/admin",
	}
	for input, want := range cases {
		assert.Equal(t, want, SafeRedirectPath(input), input)
	}
}
