package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/pkg/ctxutil"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// Attach resolves the token when one is present and leaves anonymous requests alone.
// An invalid token is rejected rather than downgraded to anonymous.
func (am *AuthMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.Next()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("rejecting token", "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects requests without an authenticated principal.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.PrincipalFrom(c.Request.Context()).Authenticated() {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("Unauthorized"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin answers 401 for non-admins, matching the services' own role check.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.PrincipalFrom(c.Request.Context()).IsAdmin() {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("Unauthorized"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractTokenFromAll accepts ?token= for EventSource clients that cannot set headers.
func extractTokenFromAll(c *gin.Context) string {
	if qToken := strings.TrimSpace(c.Query("token")); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
