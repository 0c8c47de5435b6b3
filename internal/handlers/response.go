package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/middleware"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/parkeasy/parkeasy-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DeniedResponse is returned when a free-tier limit blocks an operation
type DeniedResponse struct {
	Status  string `json:"status"`
	Allowed bool   `json:"allowed"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// currentUser returns the caller, writing a 401 when the auth middleware did not run
func currentUser(c *gin.Context) (models.SessionUser, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return models.SessionUser{}, false
	}
	return userCtx.SessionUser, true
}

// respondDenied writes a 403 for a denied decision
func respondDenied(c *gin.Context, d services.Decision) {
	c.JSON(http.StatusForbidden, DeniedResponse{
		Status:  "denied",
		Allowed: false,
		Title:   d.Title,
		Message: d.Message,
		Code:    "PREMIUM_REQUIRED",
	})
}

// respondError maps service errors onto HTTP responses
func respondError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var verr *models.ValidationError
	var authErr *services.AuthError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: verr.Message,
		})
	case isCredentialError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.As(err, &authErr):
		c.JSON(authStatus(authErr.Code), ErrorResponse{
			Error:   "auth_error",
			Message: authErr.Message(),
			Code:    authErr.Code,
		})
	case errors.Is(err, services.ErrUnknownCity):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "City not found",
		})
	default:
		logger.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error(fallback)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: fallback,
		})
	}
}

func isCredentialError(err error) bool {
	for _, target := range []error{
		validator.ErrEmptyEmail,
		validator.ErrEmptyPassword,
		validator.ErrShortPassword,
		validator.ErrInvalidEmail,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func authStatus(code string) int {
	switch code {
	case services.AuthEmailInUse:
		return http.StatusConflict
	case services.AuthUserDisabled, services.AuthOperationNotAllowed:
		return http.StatusForbidden
	case services.AuthTooManyRequests:
		return http.StatusTooManyRequests
	case services.AuthWeakPassword, services.AuthInvalidEmail:
		return http.StatusBadRequest
	default:
		return http.StatusUnauthorized
	}
}
