package middleware

import (
	"net/http"
	"strings"

	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/jwtutil"
	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// JWTAuthMiddleware creates a middleware that validates JWT bearer tokens
// and stores the claims on the context under "user". Tenant validation runs
// after this and uses the claims' user id for membership checks.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}

			c.Set("user", claims)
			log.Debug("JWT token validated successfully",
				zap.String("user_id", claims.UserID),
				zap.String("email", claims.Email))

			return next(c)
		}
	}
}

// UserClaims retrieves validated JWT claims from the context, or nil when
// the request carried no valid token.
func UserClaims(c echo.Context) *jwtutil.UserClaims {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
