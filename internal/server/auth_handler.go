package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles admin login and logout.
type AuthHandler struct {
	adminService *AdminService
	jwtService   *JWTService
	logger       logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(adminService *AdminService, jwtService *JWTService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{adminService: adminService, jwtService: jwtService, logger: logger}
}

// Login handles admin login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	admin, err := h.adminService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.WithError(err).Error("admin login failed")
		}
		writeError(w, status, publicMessage(err, "Internal server error"))
		return
	}

	token, _, err := h.jwtService.GenerateToken(r.Context(), admin.ID, admin.Email)
	if err != nil {
		h.logger.WithError(err).Error("failed to issue session token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	h.logger.WithField("admin", admin.Email).Info("admin logged in")
	writeJSON(w, http.StatusOK, types.LoginResponse{
		Message:        "Login successful",
		SessionToken:   token,
		ExpiresInHours: h.jwtService.config.ExpirationHours,
	})
}

// Logout revokes the session of the authenticated admin.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, middleware.MsgInvalidSession)
		return
	}

	if err := h.jwtService.Revoke(r.Context(), principal.GetSessionID()); err != nil {
		h.logger.WithError(err).Error("failed to revoke session")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Logout successful"})
}
