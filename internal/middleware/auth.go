package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
	"github.com/BruksfildServices01/psi-scheduler/internal/models"
)

const (
	ContextUser      = "user"
	ContextUserID    = "userID"
	ContextRequestID = "requestID"
)

type TokenParser interface {
	ParseAccess(token string) (uint, error)
}

type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware validates the bearer token and loads the user on every
// request; nothing about the user is trusted from the token besides its id.
func AuthMiddleware(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.UnauthorizedResponse(c, "missing_authorization_header", "Authorization header is required.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.UnauthorizedResponse(c, "invalid_authorization_header", "Expected a Bearer token.")
			c.Abort()
			return
		}

		userID, err := tokens.ParseAccess(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.UnauthorizedResponse(c, "invalid_token", "Invalid or expired token.")
			c.Abort()
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			if kind, ok := httperr.KindOf(err); ok && kind == httperr.KindNotFound {
				httperr.UnauthorizedResponse(c, "invalid_token", "Invalid or expired token.")
				c.Abort()
				return
			}
			httperr.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)

		c.Next()
	}
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(ContextUser).(*models.User)
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		httperr.ForbiddenResponse(c, "forbidden", "Your role cannot access this resource.")
		c.Abort()
	}
}
