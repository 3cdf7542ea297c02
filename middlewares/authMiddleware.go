package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"civicsync/models"
	"civicsync/session"
)

const (
	// AuthCookie carries the session token for browser clients.
	AuthCookie = "auth_token"

	identityKey = "identity"
)

// AuthMiddleware resolves the session token into an identity and aborts with
// 401 when there is none.
func AuthMiddleware(sessions *session.Manager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		identity, err := sessions.Current(c.Request.Context(), tokenString)
		if err != nil {
			log.WithError(err).Debug("session lookup failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.ID)
		c.Next()
	}
}

// TokenFromRequest reads "Authorization: Bearer <token>" and falls back to
// the auth cookie.
func TokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentIdentity returns the identity set by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}
