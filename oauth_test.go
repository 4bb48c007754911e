package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testOAuthApp() (*App, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	cfg := &Config{
		SessionSecret:      "test-secret",
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURL:  "http://localhost:8081/authorize",
	}
	app := NewApp(nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	app.setupRoutes(r)
	return app, r
}

func TestGoogleLoginRedirect(t *testing.T) {
	_, r := testOAuthApp()

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/login/google", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	loc := rec.Header().Get("Location")
	assert.Contains(t, loc, "accounts.google.com")
	assert.Contains(t, loc, "client_id=client-id")
	assert.Contains(t, loc, "state=")

	var stateCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == oauthStateCookieName {
			stateCookie = ck
		}
	}
	require.NotNil(t, stateCookie, "state cookie must be set")
	assert.Contains(t, loc, "state="+stateCookie.Value)
}

func TestGoogleCallbackRejectsBadState(t *testing.T) {
	_, r := testOAuthApp()

	// no state cookie at all
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/authorize?state=whatever&code=abc", nil)
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?error="))

	// cookie present but mismatched
	rec = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/authorize?state=forged&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "issued"})
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?error="))
}

func TestGoogleLoginDisabledWhenUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := NewApp(nil, &Config{SessionSecret: "test-secret"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	app.setupRoutes(r)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/login/google", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?error="))
}

func TestFetchGoogleUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"ana@example.com","name":"Ana"}`))
	}))
	defer srv.Close()

	orig := googleUserInfoURL
	googleUserInfoURL = srv.URL
	defer func() { googleUserInfoURL = orig }()

	conf := &oauth2.Config{}
	tok := &oauth2.Token{AccessToken: "token-123", Expiry: time.Now().Add(time.Hour)}

	info, err := fetchGoogleUserInfo(context.Background(), conf, tok)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", info.Email)
	assert.Equal(t, "Ana", info.Name)
}

func TestFetchGoogleUserInfoMissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Ana"}`))
	}))
	defer srv.Close()

	orig := googleUserInfoURL
	googleUserInfoURL = srv.URL
	defer func() { googleUserInfoURL = orig }()

	tok := &oauth2.Token{AccessToken: "token-123", Expiry: time.Now().Add(time.Hour)}
	_, err := fetchGoogleUserInfo(context.Background(), &oauth2.Config{}, tok)
	assert.Error(t, err)
}
