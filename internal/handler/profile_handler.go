package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/wisetech/console/internal/middleware"
	"github.com/wisetech/console/internal/models"
	"github.com/wisetech/console/internal/session"
	"github.com/wisetech/console/internal/utils"
	"github.com/wisetech/console/pkg/wisetech"
)

type ProfileHandler struct {
	client   *wisetech.Client
	sessions *session.Store
}

func NewProfileHandler(client *wisetech.Client, sessions *session.Store) *ProfileHandler {
	return &ProfileHandler{client: client, sessions: sessions}
}

func (h *ProfileHandler) api(c *gin.Context) *wisetech.Client {
	token := h.sessions.Token(c.Request.Context(), middleware.SessionID(c))
	return h.client.WithToken(token)
}

// refreshSession re-caches the identity after a profile change so session
// reads stay consistent with the upstream record.
func (h *ProfileHandler) refreshSession(c *gin.Context, user models.User) {
	sid := middleware.SessionID(c)
	if err := h.sessions.SetUserInfo(c.Request.Context(), sid, user); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh cached profile")
	}
}

// Get returns the current user's profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.api(c).Profile(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Profile retrieved", user)
}

// Update edits the current user's profile and refreshes the cached identity.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.api(c).UpdateProfile(c.Request.Context(), req)
	if err != nil {
		apiError(c, err)
		return
	}
	h.refreshSession(c, *user)
	utils.Success(c, http.StatusOK, "Profile updated", user)
}

// UploadPhoto forwards a multipart photo upload to the API.
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing file upload")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Unreadable file upload")
		return
	}
	defer file.Close()

	photo, err := h.api(c).UploadProfilePhoto(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		apiError(c, err)
		return
	}

	if user, err := h.api(c).Profile(c.Request.Context()); err == nil {
		h.refreshSession(c, *user)
	}
	utils.Success(c, http.StatusOK, "Photo uploaded", photo)
}

// DeletePhoto removes the profile photo.
func (h *ProfileHandler) DeletePhoto(c *gin.Context) {
	if err := h.api(c).DeleteProfilePhoto(c.Request.Context()); err != nil {
		apiError(c, err)
		return
	}

	if user, err := h.api(c).Profile(c.Request.Context()); err == nil {
		h.refreshSession(c, *user)
	}
	utils.Success(c, http.StatusOK, "Photo removed", nil)
}
