package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wisetech/console/internal/models"
	"github.com/wisetech/console/internal/utils"
	"github.com/wisetech/console/pkg/wisetech"
)

type GadgetHandler struct {
	client *wisetech.Client
}

func NewGadgetHandler(client *wisetech.Client) *GadgetHandler {
	return &GadgetHandler{client: client}
}

// List returns the public catalog, filtered and sorted by query parameters.
func (h *GadgetHandler) List(c *gin.Context) {
	var filter models.GadgetFilter
	filter.Category = c.Query("category")
	filter.Brand = c.Query("brand")
	filter.SortBy = c.Query("sort_by")
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = &v
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	gadgets, err := h.client.Gadgets(c.Request.Context(), filter)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Gadgets retrieved", gadgets)
}

// Featured returns the homepage highlight set.
func (h *GadgetHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))

	gadgets, err := h.client.FeaturedGadgets(c.Request.Context(), limit)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Featured gadgets retrieved", gadgets)
}

// Search runs a free-text catalog search, optionally scoped to a category.
func (h *GadgetHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing search query")
		return
	}

	gadgets, err := h.client.SearchGadgets(c.Request.Context(), query, c.Query("category"))
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Search results", gadgets)
}

// Get returns a single gadget by id.
func (h *GadgetHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gadget, err := h.client.Gadget(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Gadget retrieved", gadget)
}

// Reviews returns the reviews attached to a gadget.
func (h *GadgetHandler) Reviews(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	reviews, err := h.client.GadgetReviews(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Reviews retrieved", reviews)
}
