package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wisetech/console/internal/utils"
	"github.com/wisetech/console/pkg/wisetech"
)

// apiError maps an upstream failure onto the response envelope. HTTP errors
// keep their status; transport failures surface as 502.
func apiError(c *gin.Context, err error) {
	var he *wisetech.HTTPError
	if errors.As(err, &he) {
		utils.Error(c, he.StatusCode, "UPSTREAM_ERROR", he.Error())
		return
	}
	utils.Error(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", err.Error())
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id parameter")
		return 0, false
	}
	return id, true
}
