package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookieName = "session"
	sessionDuration   = 24 * time.Hour
)

// signSessionToken issues a signed session token bound to a user id.
func signSessionToken(secret []byte, userID uint, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": userID,
		"iat": now.Unix(),
		"exp": now.Add(sessionDuration).Unix(),
	})
	return token.SignedString(secret)
}

// verifySessionToken returns the user id carried by a valid session token.
func verifySessionToken(secret []byte, raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid session claims")
	}
	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return 0, fmt.Errorf("invalid session claims")
	}
	return uint(uid), nil
}

func (a *App) setSessionCookie(c *gin.Context, userID uint) error {
	token, err := signSessionToken(a.secret, userID, time.Now())
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, int(sessionDuration.Seconds()), "/", "", a.cfg.CookieSecure, true)
	return nil
}

func (a *App) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", a.cfg.CookieSecure, true)
}
