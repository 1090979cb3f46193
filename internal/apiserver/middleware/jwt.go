package middleware

import (
	"strings"

	"github.com/amoylab/tourdesk/internal/auth/jwt"
	"github.com/amoylab/tourdesk/internal/i18n"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middlewares
const (
	ClaimsKey  = "claims"
	SessionKey = "session"
)

// JWTAuthMiddleware creates a middleware that validates JWT tokens
func JWTAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, i18n.ErrUnauthorized)
			return
		}

		// Check if the header has the Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, i18n.ErrUnauthorized)
			return
		}

		// Validate the token
		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			abort(c, i18n.ErrUnauthorized)
			return
		}

		// Add the claims to the context
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Claims returns the validated token claims of the request
func Claims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

func abort(c *gin.Context, err error) {
	i18n.RespondWithError(c, err)
	c.Abort()
}
