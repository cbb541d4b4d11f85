package middleware

import (
	"net/http"
	"strings"

	"user_api/internal/utils"

	"github.com/gin-gonic/gin"
)

const AuthClaimsKey = "authClaims"

// TokenValidator is satisfied by *utils.JWTUtil
type TokenValidator interface {
	ValidateToken(token string) (*utils.JWTClaims, error)
}

// JWTAuthMiddleware expects the raw token in the Authorization header.
// A "Bearer " prefix is tolerated.
func JWTAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied. Token missing."})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
			return
		}

		c.Set(AuthClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by JWTAuthMiddleware
func ClaimsFromContext(c *gin.Context) (*utils.JWTClaims, bool) {
	v, ok := c.Get(AuthClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.JWTClaims)
	return claims, ok
}
