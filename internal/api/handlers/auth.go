package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		respondError(c, "Registration failed", err)
		return
	}

	utils.SendCreated(c, "User registered successfully", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(req)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}

	utils.SendSuccess(c, "Login successful", response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req services.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.authService.Refresh(req)
	if err != nil {
		respondError(c, "Token refresh failed", err)
		return
	}

	utils.SendSuccess(c, "Token refreshed successfully", response)
}
