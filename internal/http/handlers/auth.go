package handlers

import (
	"net/http"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/auth"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/middleware"
	"github.com/meusugar/server/internal/model"
)

// AuthHandler handles account and admin authentication endpoints
type AuthHandler struct {
	auth  *auth.Service
	admin *auth.AdminGate
	log   logging.Logger
}

func NewAuthHandler(authService *auth.Service, admin *auth.AdminGate, log logging.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, admin: admin, log: log}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyTwoFactorRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type twoFactorRequest struct {
	Enabled *bool `json:"enabled"`
}

// sessionResponse is returned by every endpoint that completes a login.
type sessionResponse struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

type twoFactorPendingResponse struct {
	NeedsTwoFactor bool   `json:"needsTwoFactor"`
	Email          string `json:"email"`
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]any{"user": user.Public()})
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	if res.NeedsTwoFactor {
		respondWithJSON(w, http.StatusOK, twoFactorPendingResponse{NeedsTwoFactor: true, Email: res.Email})
		return
	}
	respondWithJSON(w, http.StatusOK, sessionResponse{User: res.Session.User.Public(), Token: res.Session.Token})
}

// HandleVerifyTwoFactor handles POST /auth/verify-2fa
func (h *AuthHandler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req verifyTwoFactorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	session, err := h.auth.VerifyOneTimeCode(r.Context(), req.Email, req.Code)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sessionResponse{User: session.User.Public(), Token: session.Token})
}

// HandleForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	switch err := h.auth.RequestPasswordReset(r.Context(), req.Email); apperr.KindOf(err) {
	case apperr.KindNone:
	case apperr.KindNotFound:
		respondWithJSON(w, http.StatusNotFound, map[string]any{"error": "email not found", "notFound": true})
		return
	default:
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "reset link sent"})
}

// HandleResetPassword handles POST /auth/reset-password
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	if err := h.auth.RedeemPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "password updated"})
}

// HandleMe handles GET /me (protected). Returns the authenticated user.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}

// HandleSetTwoFactor handles PUT /me/two-factor
func (h *AuthHandler) HandleSetTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req twoFactorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	if req.Enabled == nil {
		respondWithError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	user, err := h.auth.SetTwoFactor(r.Context(), userID, *req.Enabled)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}

// HandleAdminLogin handles POST /admin/login
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	token, err := h.admin.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "token": token})
}
