package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wisetech/console/internal/middleware"
	"github.com/wisetech/console/internal/models"
	"github.com/wisetech/console/internal/session"
	"github.com/wisetech/console/internal/utils"
	"github.com/wisetech/console/pkg/wisetech"
)

type ReviewHandler struct {
	client   *wisetech.Client
	sessions *session.Store
}

func NewReviewHandler(client *wisetech.Client, sessions *session.Store) *ReviewHandler {
	return &ReviewHandler{client: client, sessions: sessions}
}

// api returns a client bound to the caller's token. Public endpoints use the
// unbound client directly.
func (h *ReviewHandler) api(c *gin.Context) *wisetech.Client {
	token := h.sessions.Token(c.Request.Context(), middleware.SessionID(c))
	return h.client.WithToken(token)
}

// List returns a page of public reviews.
func (h *ReviewHandler) List(c *gin.Context) {
	var filter models.ReviewFilter
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Search = c.Query("search")
	filter.Rating, _ = strconv.Atoi(c.Query("rating"))
	filter.Category = c.Query("category")
	filter.Sort = c.Query("sort")

	page, err := h.client.Reviews(c.Request.Context(), filter)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Reviews retrieved", page)
}

// Recent returns the newest approved reviews for the homepage.
func (h *ReviewHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))

	reviews, err := h.client.RecentReviews(c.Request.Context(), limit)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Recent reviews retrieved", reviews)
}

// Mine returns the reviews written by the current user.
func (h *ReviewHandler) Mine(c *gin.Context) {
	reviews, err := h.api(c).UserReviews(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Reviews retrieved", reviews)
}

// Create submits a new review on behalf of the current user.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req models.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	req.Normalize()

	review, err := h.api(c).CreateReview(c.Request.Context(), req)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Review submitted", review)
}

// Update edits one of the current user's reviews.
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	req.Normalize()

	review, err := h.api(c).UpdateReview(c.Request.Context(), id, req)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Review updated", review)
}

// Delete removes one of the current user's reviews.
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.api(c).DeleteReview(c.Request.Context(), id); err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Review deleted", nil)
}
