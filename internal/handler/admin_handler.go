package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wisetech/console/internal/dashboard"
	"github.com/wisetech/console/internal/middleware"
	"github.com/wisetech/console/internal/models"
	"github.com/wisetech/console/internal/session"
	"github.com/wisetech/console/internal/utils"
	"github.com/wisetech/console/pkg/wisetech"
)

type AdminHandler struct {
	client     *wisetech.Client
	sessions   *session.Store
	dashboards *dashboard.Manager
}

func NewAdminHandler(client *wisetech.Client, sessions *session.Store, dashboards *dashboard.Manager) *AdminHandler {
	return &AdminHandler{client: client, sessions: sessions, dashboards: dashboards}
}

// controller returns the caller's dashboard controller with its API client
// rebound to the current token.
func (h *AdminHandler) controller(c *gin.Context) *dashboard.Controller {
	sid := middleware.SessionID(c)
	token := h.sessions.Token(c.Request.Context(), sid)
	return h.dashboards.For(sid, h.client.WithToken(token))
}

// mutationError maps controller failures onto the envelope. A confirmation
// refusal is the caller's to resolve, not an upstream fault.
func mutationError(c *gin.Context, err error) {
	if errors.Is(err, dashboard.ErrConfirmationRequired) {
		utils.Error(c, http.StatusConflict, "CONFIRM_REQUIRED", "Deletion requires confirmation")
		return
	}
	apiError(c, err)
}

func confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}

// Dashboard returns the current dashboard snapshot. Entities still idle are
// loaded first; already-loaded data is served as-is (Refresh forces a reload).
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctrl := h.controller(c)
	snap := ctrl.Snapshot()
	if snap.States[dashboard.EntityUsers] == dashboard.StateIdle {
		ctrl.Load(c.Request.Context())
		snap = ctrl.Snapshot()
	}
	utils.Success(c, http.StatusOK, "Dashboard retrieved", snap)
}

// Refresh reloads every entity and returns the fresh snapshot.
func (h *AdminHandler) Refresh(c *gin.Context) {
	ctrl := h.controller(c)
	ctrl.Load(c.Request.Context())
	utils.Success(c, http.StatusOK, "Dashboard refreshed", ctrl.Snapshot())
}

// Stats returns only the aggregate counters.
func (h *AdminHandler) Stats(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Stats retrieved", h.controller(c).Stats())
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.controller(c).CreateUser(c.Request.Context(), req)
	if err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "User created", user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.controller(c).UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "User updated", user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.controller(c).DeleteUser(c.Request.Context(), id, confirmed(c)); err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "User deleted", nil)
}

func (h *AdminHandler) CreateGadget(c *gin.Context) {
	var form dashboard.GadgetForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	gadget, err := h.controller(c).CreateGadget(c.Request.Context(), form)
	if err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Gadget created", gadget)
}

func (h *AdminHandler) UpdateGadget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form dashboard.GadgetForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	gadget, err := h.controller(c).UpdateGadget(c.Request.Context(), id, form)
	if err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Gadget updated", gadget)
}

func (h *AdminHandler) DeleteGadget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.controller(c).DeleteGadget(c.Request.Context(), id, confirmed(c)); err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Gadget deleted", nil)
}

func (h *AdminHandler) UpdateReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	review, err := h.controller(c).UpdateReview(c.Request.Context(), id, req)
	if err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Review updated", review)
}

func (h *AdminHandler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.controller(c).DeleteReview(c.Request.Context(), id, confirmed(c)); err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Review deleted", nil)
}

func (h *AdminHandler) ApproveReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	review, err := h.controller(c).ApproveReview(c.Request.Context(), id)
	if err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Review approved", review)
}

func (h *AdminHandler) RejectReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	review, err := h.controller(c).RejectReview(c.Request.Context(), id)
	if err != nil {
		mutationError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Review rejected", review)
}
