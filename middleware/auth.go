package middleware

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/arcadia-soft/gamestore-api/models"
)

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	c.Set("user_id", claims["user_id"])
	c.Set("role", claims["role"])
	if sid, ok := claims["sid"].(string); ok && sid != "" {
		c.Set("session_id", sid)
	}
}

// ValidateToken requires a valid JWT and exposes user_id, role and the
// session id to downstream handlers.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	setIdentity(c, claims)
	c.Next()
}

// ResolveSession establishes the cart session without requiring a login:
// a valid JWT wins, otherwise the client-supplied X-Session-ID header is
// used so anonymous visitors can build a cart before authenticating.
func ResolveSession(c *gin.Context) {
	if tokenString := c.GetHeader("Authorization"); tokenString != "" {
		if claims, err := parseToken(tokenString); err == nil {
			setIdentity(c, claims)
		}
	}

	if _, ok := c.Get("session_id"); !ok {
		sid := c.GetHeader("X-Session-ID")
		if sid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required for anonymous carts"})
			c.Abort()
			return
		}
		c.Set("session_id", sid)
	}
	c.Next()
}

// RequireManager gates staff-only endpoints. Must run after ValidateToken.
func RequireManager(c *gin.Context) {
	role, _ := c.Get("role")
	if roleStr, ok := role.(string); !ok || models.Role(roleStr) != models.RoleManager {
		c.JSON(http.StatusForbidden, gin.H{"error": "manager role required"})
		c.Abort()
		return
	}
	c.Next()
}
