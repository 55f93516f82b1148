package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wisetech/console/internal/session"
)

// Guard gates routes on the session store's authenticated/admin predicates.
// Denial has no side effect beyond the redirect.
type Guard struct {
	sessions *session.Store
}

// NewGuard constructs a route guard over the given session store.
func NewGuard(sessions *session.Store) *Guard {
	return &Guard{sessions: sessions}
}

// RequireAuth admits authenticated sessions and redirects everyone else to
// the login view.
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.sessions.IsAuthenticated(c.Request.Context(), SessionID(c)) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin admits authenticated admin sessions. Unauthenticated users go
// to login; authenticated non-admins go home. The admin flag is read from the
// cache, but a missing token denies regardless of what the cache says.
func (g *Guard) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sid := SessionID(c)
		if !g.sessions.IsAuthenticated(ctx, sid) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !g.sessions.IsAdmin(ctx, sid) {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserOnly admits authenticated non-admin sessions; admins are sent to the
// dashboard so they never land on the user-facing pages by accident.
func (g *Guard) UserOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sid := SessionID(c)
		if !g.sessions.IsAuthenticated(ctx, sid) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if g.sessions.IsAdmin(ctx, sid) {
			c.Redirect(http.StatusFound, "/admin")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectAuthenticated bounces already-logged-in users away from the login
// and register views, to the dashboard or home by role.
func (g *Guard) RedirectAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sid := SessionID(c)
		if g.sessions.IsAuthenticated(ctx, sid) {
			target := "/"
			if g.sessions.IsAdmin(ctx, sid) {
				target = "/admin"
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
