package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const userIDKey = "user_id"

// RequireToken resolves the bearer token to a user id. Unknown or missing
// tokens are rejected with 401.
func RequireToken(users map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c.Request)
		userID, ok := users[token]
		if token == "" || !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func tokenFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if token := r.Header.Get("X-Auth-Token"); token != "" {
		return token
	}
	return ""
}

// requestLogger writes one access log entry per request.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Millisecond).String(),
			"client":   c.ClientIP(),
		})
		if userID := c.GetString(userIDKey); userID != "" {
			entry = entry.WithField("user_id", userID)
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Warn("request completed")
		case c.FullPath() == "/healthz" || c.FullPath() == "/metrics":
			entry.Debug("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
