package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/session"
)

const (
	ContextSession   = "session"
	ContextRequestID = "requestID"
)

// AuthMiddleware turns the bearer token into a session.Session.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "invalid_authorization_header")
			return
		}

		sess, err := session.Parse(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid_token")
			return
		}

		c.Set(ContextSession, sess)
		c.Next()
	}
}

// RequireRole rejects sessions whose role is not listed.
func RequireRole(roles ...session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		for _, r := range roles {
			if sess.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "forbidden")
	}
}

// SessionFrom must only be called behind AuthMiddleware.
func SessionFrom(c *gin.Context) session.Session {
	return c.MustGet(ContextSession).(session.Session)
}

func abort(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, httperr.HTTPError{Code: code, Message: http.StatusText(status)})
}
