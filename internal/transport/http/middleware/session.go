package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"typist/internal/model"
	"typist/internal/transport/http/response"
)

const ContextUserKey = "current_user"

// UserResolver turns a session token into its user, or nil when the token
// does not identify a live session.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// SessionToken reads the session cookie, falling back to a bearer token.
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	const prefix = "Bearer "
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(authHeader, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	}
	return ""
}

// LoadUser resolves the request's session and stores the user in the context.
// Anonymous requests pass through untouched.
func LoadUser(resolver UserResolver, cookieName string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		user, err := resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).Error("resolve session failed")
			response.Abort(c, http.StatusInternalServerError, response.CodeInternalServer, "resolve session failed")
			return
		}
		if user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok && user != nil
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "authentication required")
			return
		}
		if !user.CanAdminister() {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "administrator privileges required")
			return
		}
		c.Next()
	}
}
