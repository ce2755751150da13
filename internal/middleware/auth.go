package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xyvra/marketplace-api/internal/cache"
	"github.com/xyvra/marketplace-api/internal/handler"
	"github.com/xyvra/marketplace-api/internal/model"
	"github.com/xyvra/marketplace-api/pkg/auth"
)

const (
	ContextUserID = "userID"
	ContextEmail  = "userEmail"
	ContextClaims = "tokenClaims"
)

type AuthMiddleware struct {
	jwtSvc    auth.JWTService
	blacklist *cache.TokenBlacklist
}

func NewAuthMiddleware(jwtSvc auth.JWTService, blacklist *cache.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc, blacklist: blacklist}
}

// Authenticate verifies the bearer token, rejects revoked tokens and sets
// the caller's identity in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		revoked, err := m.blacklist.IsRevoked(c.Request.Context(), claims.TokenID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
			c.Abort()
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("token has been revoked"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// UserID extracts the authenticated user's ID from the context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(ContextUserID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Claims extracts the full token claims from the context.
func Claims(c *gin.Context) (*model.TokenClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*model.TokenClaims)
	return claims, ok
}
