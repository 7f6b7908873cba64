package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rawthreads/storefront/internal/auth/service"
	"github.com/rawthreads/storefront/internal/auth/session"
	"github.com/rawthreads/storefront/internal/platform/logger"
)

type AuthHandler struct {
	authService service.AuthService
	sessions    *session.Store
}

func NewAuthHandler(as service.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{authService: as, sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", RequireAdmin(h.sessions), h.Logout)
		authRoutes.GET("/verify", RequireAdmin(h.sessions), h.Verify)
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("Login: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(BearerToken(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	// RequireAdmin already vetted the token.
	c.JSON(http.StatusOK, gin.H{"valid": true})
}
