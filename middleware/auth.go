package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/atalvarez9/events-directory-backend/config"
	"github.com/atalvarez9/events-directory-backend/internal/event"
)

const callerKey = "caller"

// AuthMiddleware requires a valid bearer token carrying the caller's wallet
// address and sets the caller identity on the context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := callerFromHeader(c, cfg)
		if err != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "error": err})
			return
		}
		if caller == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "error": "missing Authorization header"})
			return
		}
		c.Set(callerKey, *caller)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the caller identity when a valid token is
// present and otherwise leaves the request anonymous. Listing visibility
// depends on the difference.
func OptionalAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, errMsg := callerFromHeader(c, cfg)
		if errMsg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "error": errMsg})
			return
		}
		if caller != nil {
			c.Set(callerKey, *caller)
		}
		c.Next()
	}
}

// callerFromHeader parses the bearer token. A missing header is not an error
// here; an invalid one always is.
func callerFromHeader(c *gin.Context, cfg *config.Config) (*event.Caller, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "invalid Authorization header"
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, "invalid token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "invalid claims"
	}
	address, ok := claims["address"].(string)
	if !ok || address == "" {
		return nil, "address missing in token"
	}

	address = strings.ToLower(address)
	return &event.Caller{Address: address, Admin: isAdmin(address, cfg)}, ""
}

func isAdmin(address string, cfg *config.Config) bool {
	for _, a := range cfg.AdminAddresses {
		if a == address {
			return true
		}
	}
	return false
}
