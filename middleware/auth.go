package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fidelo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

func authMiddleware(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Token manquant.",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			// Expired tokens get a distinct marker so clients can trigger
			// a re-login flow instead of showing a generic error.
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  "error",
					"message": "TokenExpiredError",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  "error",
					"message": "Token invalide.",
				})
			}
			c.Abort()
			return
		}

		if claims.Kind != kind {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Token invalide.",
			})
			c.Abort()
			return
		}

		c.Set("subjectID", claims.ID)
		c.Set("subjectKind", claims.Kind)
		c.Next()
	}
}

func UserAuthMiddleware() gin.HandlerFunc {
	return authMiddleware(utils.KindUser)
}

func AdminAuthMiddleware() gin.HandlerFunc {
	return authMiddleware(utils.KindAdmin)
}

func CaisseAuthMiddleware() gin.HandlerFunc {
	return authMiddleware(utils.KindCaisse)
}
