package handlers

import (
	"net/http"
	"time"

	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/usecase"
)

type AuthHandler struct {
	Auth         *usecase.AuthUseCase
	CookieName   string
	CookieSecure bool
	CookieTTL    time.Duration
}

func NewAuthHandler(auth *usecase.AuthUseCase, cookieName string, cookieSecure bool, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		Auth:         auth,
		CookieName:   cookieName,
		CookieSecure: cookieSecure,
		CookieTTL:    cookieTTL,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input usecase.SignupInput
	if !decodeBody(w, r, &input) {
		return
	}

	user, err := h.Auth.Signup(r.Context(), input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.ClientIP = clientIP(r)

	out, err := h.Auth.Login(r.Context(), input)
	if err != nil {
		if domainErr, ok := usecase.AsDomainError(err); ok && domainErr.Code == usecase.CodeRateLimited {
			middleware.RecordLoginLockout()
		}
		handleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    out.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.CookieTTL),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := h.Auth.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	var input usecase.UpdateProfileInput
	if !decodeBody(w, r, &input) {
		return
	}
	user, err := h.Auth.UpdateProfile(r.Context(), identity.UserID, input)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input usecase.ForgotPasswordInput
	if !decodeBody(w, r, &input) {
		return
	}
	if err := h.Auth.ForgotPassword(r.Context(), input); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "If that email exists, a reset link has been sent")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input usecase.ResetPasswordInput
	if !decodeBody(w, r, &input) {
		return
	}
	if err := h.Auth.ResetPassword(r.Context(), input); err != nil {
		handleError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated")
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
