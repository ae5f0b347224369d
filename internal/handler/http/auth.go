package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/models"
)

const (
	resetPasswordPath = apiPrefix + "/auth/resetpassword"
	logoutCookieTTL   = 10 * time.Second
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.sendToken(w, r, user, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.AuthService.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Str("user_id", user.ID).Msg("user successfully logged in")
	h.sendToken(w, r, user, http.StatusOK)
}

// logout replaces the session cookie with a short-lived placeholder.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    loggedOutToken,
		Path:     "/",
		Expires:  time.Now().Add(logoutCookieTTL),
		HttpOnly: true,
		Secure:   h.app.IsProduction(),
	})
	writeData(w, r, struct{}{}, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, identityFrom(r), http.StatusOK)
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.AuthService.UpdateProfile(r.Context(), identityFrom(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, r, user, http.StatusOK)
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.AuthService.ChangePassword(r.Context(), identityFrom(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.sendToken(w, r, user, http.StatusOK)
}

// forgotPassword never echoes the reset token; the link travels through
// the notifier only.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.ForgotPassword(r.Context(), req, h.resetURLBase()); err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, r, "Email sent", http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Token = chi.URLParam(r, "resettoken")

	user, err := h.services.AuthService.ResetPassword(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.sendToken(w, r, user, http.StatusOK)
}

// sendToken issues a token for user and returns it both in the body and
// as an http-only cookie.
func (h *Handler) sendToken(w http.ResponseWriter, r *http.Request, user models.User, status int) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token.SignedString,
		Path:     "/",
		Expires:  time.Now().Add(h.app.CookieDuration),
		HttpOnly: true,
		Secure:   h.app.IsProduction(),
	})

	resp := models.Response{Success: true, Token: token.SignedString, Data: user}
	if _, err = utils.WriteJSON(w, resp, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

// resetURLBase is built from configuration only. The request Host is
// client controlled and never ends up in a reset link.
func (h *Handler) resetURLBase() string {
	return strings.TrimRight(h.app.PublicURL, "/") + resetPasswordPath
}
