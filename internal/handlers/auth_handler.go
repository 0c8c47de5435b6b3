package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/parkeasy/parkeasy-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *services.AuthService
	timerService *services.TimerService
	logger       *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, timerService *services.TimerService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		timerService: timerService,
		logger:       logger,
	}
}

// SignupRequest represents the request to create an account
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the request to sign in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest represents the request to refresh an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest represents the request to sign out
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	LogoutAll    bool   `json:"logout_all"`
}

func clientMeta(c *gin.Context) services.ClientMeta {
	return services.ClientMeta{
		IP:        utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), req.Email, req.Password, req.Name, clientMeta(c))
	if err != nil {
		respondError(c, h.logger, err, "Something went wrong. Please try again.")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	meta := clientMeta(c)
	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, meta)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"ip":    meta.IP,
			"error": err.Error(),
		}).Info("Login failed")
		respondError(c, h.logger, err, "Something went wrong. Please try again.")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Guest handles POST /api/v1/auth/guest
func (h *AuthHandler) Guest(c *gin.Context) {
	result, err := h.authService.Guest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to start guest session")
		return
	}

	c.JSON(http.StatusOK, result)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken, clientMeta(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// No body means a single-session logout
		req = LogoutRequest{}
	}

	if err := h.authService.Logout(c.Request.Context(), user, req.RefreshToken, req.LogoutAll); err != nil {
		respondError(c, h.logger, err, "Failed to logout")
		return
	}
	h.timerService.Stop(user.ID)

	message := "Successfully logged out"
	if req.LogoutAll {
		message = "Successfully logged out from all devices"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
