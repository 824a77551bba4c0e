package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/handler"
	"github.com/devtogether/platform-api/internal/service/authz"
	"github.com/devtogether/platform-api/pkg/auth"
)

const ContextAccountID = "accountID"

type AuthMiddleware struct {
	tokens *auth.TokenService
	gate   *authz.Service
}

func NewAuthMiddleware(tokens *auth.TokenService, gate *authz.Service) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		gate:   gate,
	}
}

// Authenticate verifies the bearer token and sets the account id in context.
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

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Next()
	}
}

// RequireAdmin gates admin routes. The token role is not trusted: the gate
// reads the persisted role (cached briefly for read paths; services re-check
// uncached before anything destructive).
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := uuid.Parse(c.GetString(ContextAccountID))
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid account ID"))
			c.Abort()
			return
		}

		isAdmin, err := m.gate.IsAdminCached(c.Request.Context(), accountID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to check privileges"))
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("administrator privilege required"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// AccountID extracts the authenticated account id from the gin context.
func AccountID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(ContextAccountID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
