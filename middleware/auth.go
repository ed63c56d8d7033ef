package middleware

import (
	"net/http"
	"strings"

	"blackmarket-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	ClaimsKey    = "claims"
	SubjectKey   = "user_id"
	UserEmailKey = "user_email"
)

// AuthMiddleware requires a bearer identity token. It stores the claims, the
// subject and the email resolved from the claims in the gin context. In debug
// mode a token without an email gets a placeholder derived from its subject.
func AuthMiddleware(verifier *utils.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		email := utils.EmailFromClaims(claims)
		if email == "" && verifier.Debug() {
			email = utils.FallbackEmail(claims)
		}

		sub, _ := claims["sub"].(string)
		c.Set(ClaimsKey, claims)
		c.Set(SubjectKey, sub)
		c.Set(UserEmailKey, email)
		c.Next()
	}
}

// Claims returns the claims stored by AuthMiddleware.
func Claims(c *gin.Context) jwt.MapClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(jwt.MapClaims)
	return claims
}
