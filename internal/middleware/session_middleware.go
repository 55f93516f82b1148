package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionIDKey = "session_id"

// SessionMiddleware resolves the session cookie, minting a new session ID
// for first-time visitors, and places the ID in the request context.
func SessionMiddleware(cookieName string, maxAge int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			sid = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sid, maxAge, "/", "", secure, true)
		}
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

// SessionID returns the session ID resolved for this request.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
