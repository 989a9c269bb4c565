package http

import (
	"net/http"
	"time"

	"github.com/pollwise/api/internal/core/ports"
)

const refreshTokenCookie = "refresh_token"

type AuthHandler struct {
	service        ports.AuthService
	redirectURL    string
	cookieDomain   string
	cookieSameSite http.SameSite
}

func NewAuthHandler(service ports.AuthService, redirectURL, cookieDomain string, cookieSameSite http.SameSite) *AuthHandler {
	return &AuthHandler{
		service:        service,
		redirectURL:    redirectURL,
		cookieDomain:   cookieDomain,
		cookieSameSite: cookieSameSite,
	}
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	credential := r.FormValue("credential")
	if credential == "" {
		http.Error(w, "Missing credential", http.StatusBadRequest)
		return
	}

	accessToken, refreshToken, err := h.service.LoginWithGoogle(r.Context(), credential)
	if err != nil {
		http.Error(w, "Authentication failed", http.StatusUnauthorized)
		return
	}

	h.setTokenCookies(w, accessToken, refreshToken)
	http.Redirect(w, r, h.redirectURL, http.StatusSeeOther)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		http.Error(w, "Missing refresh token", http.StatusUnauthorized)
		return
	}

	accessToken, refreshToken, err := h.service.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	h.setTokenCookies(w, accessToken, refreshToken)
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		// Best effort; an unknown token still clears the cookies.
		_ = h.service.Logout(r.Context(), cookie.Value)
	}

	h.clearTokenCookies(w)
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, h.cookie(accessTokenCookie, accessToken, 15*time.Minute))
	http.SetCookie(w, h.cookie(refreshTokenCookie, refreshToken, 7*24*time.Hour))
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.cookie(accessTokenCookie, "", -time.Hour))
	http.SetCookie(w, h.cookie(refreshTokenCookie, "", -time.Hour))
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
	}
}
