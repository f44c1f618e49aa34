package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/contestify/contest-api/internal/api/handler/v1/response"
)

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("%s must be a positive integer", param)))
		return 0, false
	}

	return uint(id), true
}

// bindJSON decodes and validates a request body, rendering a 400 on failure.
func bindJSON(ctx *gin.Context, req interface{ Validate() error }) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return true
}
