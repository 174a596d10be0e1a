package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dailycash_backend/config"
	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/utils"
)

// bearerToken reads "Authorization: Bearer <jwt>", falling back to the "token" header.
func bearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.Request.Header.Get("Authorization"))
	const bearer = "Bearer "
	if len(auth) > len(bearer) && strings.EqualFold(auth[:len(bearer)], bearer) {
		return strings.TrimSpace(auth[len(bearer):])
	}
	return strings.TrimSpace(c.Request.Header.Get("token"))
}

// SessionMiddleware attaches the caller's session to the request context.
// Requests without a token pass through; RequireSession guards private routes.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		session, err := utils.SessionFromToken(token)
		if err != nil || session.Expired(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		revoked, err := models.IsSessionRevoked(session.ID)
		if err != nil {
			config.LogError(config.GetLogger(), "sessionMiddleware.go", "SessionMiddleware", "IsSessionRevoked", session.ID, err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session has ended"})
			return
		}

		c.Request = c.Request.WithContext(utils.SetSessionInContext(c.Request.Context(), session))
		c.Next()
	}
}
