package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookieName = "oauth_state"

// overridable in tests
var googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// newGoogleOAuth builds the OAuth client config, or nil when the
// credentials are not configured (the login page then hides the button).
func newGoogleOAuth(cfg *Config) *oauth2.Config {
	if !cfg.GoogleOAuthEnabled() {
		return nil
	}
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

type googleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// fetchGoogleUserInfo retrieves the identity claims for an exchanged token.
func fetchGoogleUserInfo(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (googleUserInfo, error) {
	var info googleUserInfo
	resp, err := conf.Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		return info, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return info, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return info, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return info, fmt.Errorf("userinfo response missing email")
	}
	return info, nil
}

// googleLogin starts the OAuth redirect, pinning a state nonce in a
// short-lived cookie so the callback can reject forged requests.
func (a *App) googleLogin(c *gin.Context) {
	if a.oauth == nil {
		c.Redirect(http.StatusFound, "/login?error=Google+login+no+configurado")
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, state, 300, "/", "", a.cfg.CookieSecure, true)
	c.Redirect(http.StatusFound, a.oauth.AuthCodeURL(state))
}

// googleCallback completes the OAuth flow: state check, code exchange,
// identity fetch, then login-or-create by email.
func (a *App) googleCallback(c *gin.Context) {
	if a.oauth == nil {
		c.Redirect(http.StatusFound, "/login?error=Google+login+no+configurado")
		return
	}
	stateCookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || stateCookie == "" || stateCookie != c.Query("state") {
		c.Redirect(http.StatusFound, "/login?error=Sesion+OAuth+invalida")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, "", -1, "/", "", a.cfg.CookieSecure, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/login?error=Autorizacion+rechazada")
		return
	}
	tok, err := a.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		a.log.Warn("oauth exchange failed", "error", err)
		c.Redirect(http.StatusFound, "/login?error=Autorizacion+fallida")
		return
	}
	info, err := fetchGoogleUserInfo(c.Request.Context(), a.oauth, tok)
	if err != nil {
		a.log.Warn("oauth userinfo failed", "error", err)
		c.Redirect(http.StatusFound, "/login?error=Autorizacion+fallida")
		return
	}
	user, err := LoginWithGoogleIdentity(a.db, info.Email)
	if err != nil {
		a.log.Error("google login failed", "email", info.Email, "error", err)
		c.Redirect(http.StatusFound, "/login?error=No+se+pudo+iniciar+sesion")
		return
	}
	if err := a.setSessionCookie(c, user.ID); err != nil {
		c.Redirect(http.StatusFound, "/login?error=No+se+pudo+iniciar+sesion")
		return
	}
	a.log.Info("google login", "user_id", user.ID, "name", info.Name)
	c.Redirect(http.StatusFound, "/")
}
