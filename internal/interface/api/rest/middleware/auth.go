package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fileshare-api/internal/domain/identity"
	"fileshare-api/internal/infrastructure/jwt"
)

const CtxIdentity = "identity"

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing Authorization header"},
			)
			return
		}

		who, msg := parseBearer(jwtService, authHeader)
		if who == nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": msg},
			)
			return
		}

		c.Set(CtxIdentity, who)

		c.Next()
	}
}

// OptionalAuthMiddleware sets the identity when a token is present and lets
// anonymous requests through. A malformed or expired token is still a 401.
func OptionalAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		who, msg := parseBearer(jwtService, authHeader)
		if who == nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": msg},
			)
			return
		}

		c.Set(CtxIdentity, who)

		c.Next()
	}
}

// IdentityFrom returns nil for anonymous requests.
func IdentityFrom(c *gin.Context) *identity.Identity {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil
	}
	who, _ := v.(*identity.Identity)
	return who
}

func parseBearer(jwtService *jwt.Service, authHeader string) (*identity.Identity, string) {
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader || tokenStr == "" {
		return nil, "invalid token format"
	}

	claims, err := jwtService.ValidateToken(tokenStr)
	if err != nil {
		return nil, "invalid token"
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, "invalid token"
	}

	return identity.New(id, claims.Email, claims.EmailVerified), ""
}
