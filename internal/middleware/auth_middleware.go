package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the authenticated caller
type UserContext struct {
	models.SessionUser
}

// AuthMiddleware creates a middleware that validates JWT access tokens.
// Guest tokens are accepted; use RequireAccount to reject them.
func AuthMiddleware(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := logrus.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// Browsers cannot set headers on WebSocket upgrades
			if token := c.Query("access_token"); token != "" && c.IsWebsocket() {
				authHeader = "Bearer " + token
			}
		}
		if authHeader == "" {
			logger.WithFields(fields).Warn("Auth failed: missing authorization header")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			logger.WithFields(fields).Warn("Auth failed: invalid authorization format")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			logger.WithFields(fields).Warn("Auth failed: empty token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Token cannot be empty",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			fields["error"] = err.Error()
			if jwtService.IsTokenExpired(tokenString) {
				logger.WithFields(fields).Info("Auth failed: token expired")
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Access token has expired. Please refresh your token.",
					"code":    "TOKEN_EXPIRED",
				})
			} else {
				logger.WithFields(fields).Warn("Auth failed: invalid token")
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_token",
					"message": "Invalid access token",
					"code":    "INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		c.Set(UserContextKey, UserContext{
			SessionUser: models.SessionUser{
				ID:    claims.UserID,
				Name:  claims.Name,
				Email: claims.Email,
				Guest: claims.Guest,
			},
		})

		c.Next()
	}
}

// RequireAccount rejects guest sessions
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found. Auth middleware may not be applied.",
				"code":    "MISSING_USER_CONTEXT",
			})
			c.Abort()
			return
		}

		if userCtx.IsGuest() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Create an account to use this feature",
				"code":    "ACCOUNT_REQUIRED",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserContext retrieves the user context from Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}

	userCtx, ok := value.(UserContext)
	if !ok {
		return UserContext{}, false
	}

	return userCtx, true
}

// MustGetUserContext retrieves the user context or panics (use only after AuthMiddleware)
func MustGetUserContext(c *gin.Context) UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - ensure AuthMiddleware is applied")
	}
	return userCtx
}
