package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/service"
)

// CookieSettings — параметры cookie, в которых браузер носит токены.
type CookieSettings struct {
	AccessName  string
	RefreshName string
	Domain      string
	SameSite    http.SameSite
	Secure      bool
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
}

// NewCookieSettings собирает CookieSettings из конфига.
// Secure ставится, только если сервер работает по TLS.
func NewCookieSettings(cfg *config.Config) CookieSettings {
	c := cfg.Auth.Cookie
	s := CookieSettings{
		AccessName:  c.AccessName,
		RefreshName: c.RefreshName,
		Domain:      c.Domain,
		SameSite:    http.SameSiteLaxMode,
		Secure:      cfg.TLS.Enabled,
		AccessTTL:   cfg.Auth.AccessTTL,
		RefreshTTL:  cfg.Auth.RefreshTTL,
	}
	if s.AccessName == "" {
		s.AccessName = "clubhouse_session"
	}
	if s.RefreshName == "" {
		s.RefreshName = "clubhouse_refresh"
	}
	switch strings.ToLower(c.SameSite) {
	case "strict":
		s.SameSite = http.SameSiteStrictMode
	case "none":
		s.SameSite = http.SameSiteNoneMode
	}
	return s
}

// setSession выставляет cookie с access и refresh токенами.
func (h *Handler) setSession(w http.ResponseWriter, pair service.TokenPair) {
	http.SetCookie(w, h.cookie(h.Cookies.AccessName, pair.AccessToken, "/", h.Cookies.AccessTTL))
	http.SetCookie(w, h.cookie(h.Cookies.RefreshName, pair.RefreshToken, "/auth", h.Cookies.RefreshTTL))
}

// clearSession удаляет cookie сессии.
func (h *Handler) clearSession(w http.ResponseWriter) {
	for _, c := range []*http.Cookie{
		h.cookie(h.Cookies.AccessName, "", "/", 0),
		h.cookie(h.Cookies.RefreshName, "", "/auth", 0),
	} {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func (h *Handler) cookie(name, value, path string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   h.Cookies.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: h.Cookies.SameSite,
	}
}
