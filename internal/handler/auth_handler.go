package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wisetech/console/internal/dashboard"
	"github.com/wisetech/console/internal/middleware"
	"github.com/wisetech/console/internal/models"
	"github.com/wisetech/console/internal/session"
	"github.com/wisetech/console/internal/utils"
	"github.com/wisetech/console/pkg/wisetech"
)

type AuthHandler struct {
	client     *wisetech.Client
	sessions   *session.Store
	dashboards *dashboard.Manager
}

func NewAuthHandler(client *wisetech.Client, sessions *session.Store, dashboards *dashboard.Manager) *AuthHandler {
	return &AuthHandler{client: client, sessions: sessions, dashboards: dashboards}
}

// Login exchanges credentials upstream, then stores the token and the cached
// identity in the session. The response carries the landing path so the client
// can route admins straight to the dashboard.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	sid := middleware.SessionID(c)

	tok, err := h.client.Login(ctx, req.Email, req.Password)
	if err != nil {
		if wisetech.IsStatus(err, http.StatusUnauthorized) {
			utils.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password")
			return
		}
		apiError(c, err)
		return
	}

	if err := h.sessions.SetToken(ctx, sid, tok.AccessToken); err != nil {
		utils.Error(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to persist session")
		return
	}

	// The token response carries no identity, so fetch it now. A failure here
	// leaves a usable token-only session; identity fills in on the next call.
	user, err := h.client.WithToken(tok.AccessToken).CurrentUser(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Login succeeded but identity fetch failed")
		utils.Success(c, http.StatusOK, "Login successful", gin.H{"redirect": "/"})
		return
	}

	if err := h.sessions.SetUserInfo(ctx, sid, *user); err != nil {
		utils.Error(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to persist session")
		return
	}
	if err := h.sessions.RecordLogin(ctx, sid, user.IsAdmin, time.Now()); err != nil {
		log.Warn().Err(err).Msg("Failed to record login marker")
	}

	redirect := "/"
	if user.IsAdmin {
		redirect = "/admin"
	}
	utils.Success(c, http.StatusOK, "Login successful", gin.H{
		"user":     user,
		"redirect": redirect,
	})
}

// Register creates an account upstream. It does not log the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.client.Register(c.Request.Context(), req)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Account created", user)
}

// Logout clears the session. Admin sessions must confirm first: without
// confirm=true the session is left untouched and the client is told to ask.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	sid := middleware.SessionID(c)

	if h.sessions.IsAdmin(ctx, sid) && c.Query("confirm") != "true" {
		utils.Error(c, http.StatusConflict, "CONFIRM_REQUIRED", "Admin logout requires confirmation")
		return
	}

	if err := h.sessions.Logout(ctx, sid); err != nil {
		utils.Error(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to clear session")
		return
	}
	h.dashboards.Drop(sid)

	utils.Success(c, http.StatusOK, "Logged out", gin.H{"redirect": "/login"})
}

// Session reports the current session state: whether a token is present, the
// cached identity, and the unverified token claims for display purposes. A
// session whose token already carries an expired exp claim is torn down here
// rather than left to bounce off upstream 401s.
func (h *AuthHandler) Session(c *gin.Context) {
	ctx := c.Request.Context()
	sid := middleware.SessionID(c)

	if token := h.sessions.Token(ctx, sid); token != "" && session.TokenExpired(token, time.Now()) {
		if err := h.sessions.Destroy(ctx, sid); err != nil {
			log.Warn().Err(err).Msg("Failed to tear down expired session")
		}
		h.dashboards.Drop(sid)
		utils.Success(c, http.StatusOK, "Session state", gin.H{"authenticated": false})
		return
	}

	authenticated := h.sessions.IsAuthenticated(ctx, sid)
	payload := gin.H{"authenticated": authenticated}
	if authenticated {
		payload["user"] = h.sessions.UserInfo(ctx, sid)
		payload["is_admin"] = h.sessions.IsAdmin(ctx, sid)
		if claims, err := session.PeekClaims(h.sessions.Token(ctx, sid)); err == nil {
			payload["token_expires_at"] = claims.ExpiresAt
		}
	}
	utils.Success(c, http.StatusOK, "Session state", payload)
}
